package tests

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/shared/logger"
)

func TestNewHTTPLogger_CreatesLogFileAndWrites(t *testing.T) {
	// ВАЖНО: тест не параллелим, т.к. путь общий.
	logPath := filepath.Join("runtime", "logs", "http.log")

	// подчистим старый файл (если есть)
	os.Remove(logPath)

	l := logger.NewHTTPLogger()
	// пишем лог
	l.Info("test message")
	// закрываем буферы zap
	_ = l.Sync()

	// проверяем, что файл создан
	if _, err := os.Stat(logPath); err != nil {
		t.Fatalf("expected log file to exist at %q, got error: %v", logPath, err)
	}

	b, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	s := string(b)

	if !regexp.MustCompile(`\btest message\b`).MatchString(s) {
		t.Fatalf("expected log to contain message, got: %q", s)
	}

	// проверяем формат времени: "HH:MM:SS DD.MM.YYYY"
	timeRe := regexp.MustCompile(`\b\d{2}:\d{2}:\d{2} \d{2}\.\d{2}\.\d{4}\b`)
	if !timeRe.MatchString(s) {
		t.Fatalf("expected custom time format (HH:MM:SS DD.MM.YYYY), got: %q", s)
	}

	os.Remove(logPath)
}

func TestHTTPLogger_LogRequest_WritesStructuredFields(t *testing.T) {
	logPath := filepath.Join("runtime", "logs", "http.log")
	os.Remove(logPath)

	l := logger.NewHTTPLogger()
	l.LogRequest("POST", "/calculate", 400, 32, 12.5)
	l.Sync()

	b, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	s := string(b)

	mustContain := []string{
		"HTTP request",
		"method", "POST",
		"uri", "/calculate",
		"status", "400",
		"response_size", "32",
		"duration_ms",
	}
	for _, sub := range mustContain {
		if !regexp.MustCompile(regexp.QuoteMeta(sub)).MatchString(s) {
			t.Fatalf("expected log to contain %q, got: %q", sub, s)
		}
	}

	os.Remove(logPath)
}

// JSON формат и фильтрация по уровню
func TestNew_JSONFormatRespectsLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "app.log")

	l := logger.New(logger.Options{Level: "warn", Format: "json", File: logPath})
	l.Info("hidden message")
	l.Warn("visible message")
	require.NoError(t, l.Sync())

	b, err := os.ReadFile(logPath)
	require.NoError(t, err)

	s := string(b)
	require.Contains(t, s, `"msg":"visible message"`)
	require.NotContains(t, s, "hidden message")
}

// Неизвестный уровень не ломает логгер
func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "app.log")

	l := logger.New(logger.Options{Level: "verbose", File: logPath})
	l.Info("info message")
	require.NoError(t, l.Sync())

	b, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.Contains(t, string(b), "info message")
}
