package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/matillion/mattermost-export/internal/config"
	"github.com/matillion/mattermost-export/internal/export"
	exportmcp "github.com/matillion/mattermost-export/internal/mcp"
	"github.com/matillion/mattermost-export/internal/mattermost"
)

var version = "dev"

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Println(version)
		return
	}

	cfg, err := config.Load(os.Getenv("EXPORT_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := initLogger(os.Getenv("LOG_LEVEL"), cfg.OutputDir)
	defer logger.Sync()

	server := newServer(logger, cfg)
	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}

func newServer(logger *zap.Logger, cfg *config.Config) *mcp.Server {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	logger.Info("Creating Mattermost client")
	client, err := mattermost.NewClient(mattermost.Config{
		URL:      cfg.Mattermost.URL,
		Token:    cfg.Mattermost.Token,
		Username: cfg.Mattermost.Username,
		Password: cfg.Mattermost.Password,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create Mattermost client", zap.Error(err))
	}
	if err := client.Login(ctx); err != nil {
		logger.Fatal("Failed to authenticate", zap.Error(err))
	}

	sink, err := export.NewDirSink(cfg.OutputDir)
	if err != nil {
		logger.Fatal("Failed to create output directory", zap.Error(err))
	}

	exporter := export.NewExporter(client, sink, logger, cfg.Workers)
	if err := exporter.Prepare(ctx); err != nil {
		logger.Fatal("Failed to resolve user directory", zap.Error(err))
	}

	return exportmcp.CreateServer(logger, exporter)
}

// initLogger writes to stderr and a dated file under the output directory.
// Stdout stays reserved for the MCP transport.
func initLogger(level, outputDir string) *zap.Logger {
	logLevel := interpretLogLevel(level)

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	logDir := filepath.Join(outputDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		log.Fatalf("Failed to create log directory: %v", err)
	}
	logFileName := fmt.Sprintf("mattermost-export-%s.log", time.Now().Format("2006-01-02"))
	logFile, err := os.OpenFile(filepath.Join(logDir, logFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}

	stderrCore := zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), logLevel)
	fileCore := zapcore.NewCore(encoder, zapcore.AddSync(logFile), logLevel)

	return zap.New(zapcore.NewTee(stderrCore, fileCore), zap.AddCaller())
}

func interpretLogLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
