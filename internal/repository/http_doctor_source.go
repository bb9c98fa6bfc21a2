package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go-doctor-directory/internal/domain/entity"
	domainRepo "go-doctor-directory/internal/domain/repository"
)

// maxPayloadBytes bounds how much of the upstream response is read.
const maxPayloadBytes = 32 << 20

var ErrPayloadTooLarge = errors.New("doctors response exceeds size limit")

type httpDoctorSource struct {
	url      string
	client   *http.Client
	maxBytes int64
}

func NewHTTPDoctorSource(url string, timeout time.Duration) domainRepo.DoctorSource {
	return &httpDoctorSource{
		url:      url,
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxPayloadBytes,
	}
}

func (s *httpDoctorSource) FetchAll(ctx context.Context) ([]entity.RawDoctor, error) {
	payload, err := s.fetchPayload(ctx)
	if err != nil {
		return nil, err
	}
	return DecodeRawDoctors(payload)
}

func (s *httpDoctorSource) fetchPayload(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch doctors: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch doctors: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read doctors response: %w", err)
	}
	if int64(len(body)) > s.maxBytes {
		return nil, fmt.Errorf("fetch doctors: %w (%d bytes)", ErrPayloadTooLarge, s.maxBytes)
	}
	return body, nil
}

// DecodeRawDoctors parses a JSON array of records. Elements that are not
// JSON objects are skipped; a payload that is not an array is an error.
func DecodeRawDoctors(payload []byte) ([]entity.RawDoctor, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("decode doctors: %w", err)
	}

	raws := make([]entity.RawDoctor, 0, len(items))
	for _, item := range items {
		var raw entity.RawDoctor
		if err := json.Unmarshal(item, &raw); err != nil || raw == nil {
			continue
		}
		raws = append(raws, raw)
	}
	return raws, nil
}
