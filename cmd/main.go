package main

import (
	"go-doctor-directory/cmd/bootstrap"
)

func main() {
	bootstrap.Execute()
}
