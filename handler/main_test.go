package handler

import (
	"io"
	"os"
	"testing"

	"blogger-api/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	logger.Log.SetOutput(io.Discard)
	os.Exit(m.Run())
}
