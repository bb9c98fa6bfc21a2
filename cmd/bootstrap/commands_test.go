package bootstrap

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-doctor-directory/internal/delivery/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand()

	names := make([]string, 0)
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "query", "migrate", "sync"}, names)

	migrate, _, err := root.Find([]string{"migrate", "up"})
	require.NoError(t, err)
	assert.Equal(t, "up", migrate.Name())
}

func TestQueryCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id":"1","name":"Alice","fees":"₹ 500","experience":"5 Years of experience","video_consult":true,"specialities":[{"name":"Cardio"}]},
			{"id":"2","name":"Bob","fees":"₹ 300","experience":"10 Years of experience","in_clinic":true,"specialities":[{"name":"Derm"}]}
		]`))
	}))
	defer server.Close()

	t.Setenv("SOURCE_DRIVER", "http")
	t.Setenv("SOURCE_URL", server.URL)
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("DB_HOST", "")
	t.Setenv("REDIS_HOST", "")

	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"query", "sortBy=fees"})
	require.NoError(t, root.Execute())

	var result dto.DoctorListResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	require.Len(t, result.Doctors, 2)
	assert.Equal(t, "Bob", result.Doctors[0].Name)
	assert.Equal(t, "sortBy=fees", result.Address)
}

func TestMigrateCommand_RequiresDatabase(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("LOG_LEVEL", "error")

	root := NewRootCommand()
	root.SetArgs([]string{"migrate", "up"})
	assert.Error(t, root.Execute())
}
