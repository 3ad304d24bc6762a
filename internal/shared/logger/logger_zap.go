// Package logger содержит общий логгер для server и CLI-клиента.
//
// Пакет предоставляет Zap-логгер, настроенный на запись в файл с ротацией
// (lumberjack) и удобный метод для логирования HTTP-запросов.
package logger

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultFile — файл логов по умолчанию относительно рабочей директории.
var DefaultFile = filepath.Join("runtime", "logs", "http.log")

// HTTPLogger представляет обёртку над zap.Logger для логирования HTTP-событий.
//
// Встраивание *zap.Logger позволяет использовать все методы zap напрямую.
type HTTPLogger struct {
	*zap.Logger
}

// Options описывает параметры логгера (секция log в server.yaml).
type Options struct {
	// Level — debug|info|warn|error, по умолчанию info.
	Level string
	// Format — console|json, по умолчанию console.
	Format string
	// File — путь к файлу логов, по умолчанию runtime/logs/http.log.
	File string
	// Stdout — дублировать ли записи в stdout.
	Stdout bool
}

// NewHTTPLogger создаёт файловый zap-логгер с настройками по умолчанию.
//
// Логи записываются в файл runtime/logs/http.log.
// Для файлов включена ротация (MaxSize/MaxBackups/MaxAge) и сжатие архивов.
// Формат времени: "HH:MM:SS DD.MM.YYYY".
func NewHTTPLogger() *HTTPLogger {
	return New(Options{})
}

// New создаёт zap-логгер по переданным параметрам.
//
// Некорректный уровень логирования заменяется на info, чтобы опечатка
// в конфиге не роняла сервер.
func New(opts Options) *HTTPLogger {
	file := opts.File
	if file == "" {
		file = DefaultFile
	}
	_ = os.MkdirAll(filepath.Dir(file), 0755)

	// lumberjack отвечает за ротацию файлов
	var writer zapcore.WriteSyncer = zapcore.AddSync(&lumberjack.Logger{
		Filename:   file,
		MaxSize:    100, // MB ≈ ~300 000 строк
		MaxBackups: 10,  // сколько старых файлов хранить
		MaxAge:     30,  // дней
		Compress:   true,
	})
	if opts.Stdout {
		writer = zapcore.NewMultiWriteSyncer(writer, zapcore.Lock(os.Stdout))
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = customTimeEncoder

	var encoder zapcore.Encoder
	if strings.EqualFold(opts.Format, "json") {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	level := zap.InfoLevel
	if opts.Level != "" {
		if l, err := zapcore.ParseLevel(opts.Level); err == nil {
			level = l
		}
	}

	core := zapcore.NewCore(encoder, writer, level)
	logger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))

	return &HTTPLogger{Logger: logger}
}

// LogRequest записывает структурированный лог об HTTP-запросе.
//
// method и uri — параметры запроса,
// status — HTTP-статус ответа,
// responseSize — размер ответа в байтах,
// duration — длительность обработки запроса в миллисекундах.
func (logger *HTTPLogger) LogRequest(method, uri string, status, responseSize int, duration float64) {
	logger.Info("HTTP request",
		zap.String("method", method),
		zap.String("uri", uri),
		zap.Int("status", status),
		zap.Int("response_size", responseSize),
		zap.Float64("duration_ms", duration),
	)
}

// customTimeEncoder форматирует время для логов в виде "HH:MM:SS DD.MM.YYYY".
func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05 02.01.2006"))
}
