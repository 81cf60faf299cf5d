package config

import (
	"os"
	"path/filepath"
	"strings"
)

var gitSHA string
var buildDate string

func GetDataDir() string {
	value, exists := os.LookupEnv("QUARTZ_RENDER_DATA_DIR")
	if exists {
		return value
	}
	return "data"
}

// defaults to GetDataDir() / config
func GetConfigDir() string {
	value, exists := os.LookupEnv("QUARTZ_RENDER_CONFIG_DIR")
	if exists {
		return value
	}
	return filepath.Join(GetDataDir(), "config")
}

func GetListenAddr() string {
	value, exists := os.LookupEnv("QUARTZ_RENDER_LISTEN_ADDR")
	if exists {
		return value
	}
	return ":8080"
}

func GetFfmpegPath() string {
	value, exists := os.LookupEnv("QUARTZ_RENDER_FFMPEG")
	if exists {
		return value
	}
	return "ffmpeg"
}

func GetFfprobePath() string {
	value, exists := os.LookupEnv("QUARTZ_RENDER_FFPROBE")
	if exists {
		return value
	}
	return "ffprobe"
}

// font file used for text elements that don't name one.
// empty means the built-in face.
func GetFontPath() string {
	value, exists := os.LookupEnv("QUARTZ_RENDER_FONT")
	if exists {
		return value
	}
	return ""
}

// GetScaleTrimBySpeed controls whether a clip's captured window length is
// divided by its playback speed. Off preserves the historical output where
// only the seek offset was speed-scaled.
func GetScaleTrimBySpeed() bool {
	key := "QUARTZ_RENDER_SCALE_TRIM_BY_SPEED"
	if value, exists := os.LookupEnv(key); exists {
		lower := strings.ToLower(value)
		if lower == "on" || lower == "1" || lower == "true" || lower == "yes" {
			return true
		}
	}
	return false
}

func GetLogLevel() string {
	value, exists := os.LookupEnv("QUARTZ_RENDER_LOG_LEVEL")
	if exists {
		return value
	}
	return "debug"
}

func GetGitSHA() string {
	if gitSHA == "" {
		return "<not provided>"
	} else {
		return gitSHA
	}
}

func GetBuildDate() string {
	if buildDate == "" {
		return "<not provided>"
	} else {
		return buildDate
	}
}
