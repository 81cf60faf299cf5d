package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"golang.org/x/sys/unix"

	"quartz-render/config"
	"quartz-render/ffmpeg"
)

// getFreeSpace returns the free space in bytes for the filesystem containing the given directory
func getFreeSpace(dir string) (uint64, error) {
	var stat unix.Statfs_t
	err := unix.Statfs(dir, &stat)
	if err != nil {
		return 0, fmt.Errorf("error getting filesystem stats: %v", err)
	}

	freeSpace := stat.Bavail * uint64(stat.Bsize)
	return freeSpace, nil
}

// getDirectorySize calculates the total size of a directory in bytes
func getDirectorySize(dir string) (int64, error) {
	var size int64
	err := filepath.Walk(dir, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("error walking directory: %v", err)
	}
	return size, nil
}

// StatusGet reports build info, tool versions, disk headroom, and how
// many exports are in flight.
func StatusGet(c echo.Context) error {

	ffmpegVersion, err := ffmpeg.Version()
	if err != nil {
		log.Errorln(err)
	}
	ffprobeVersion, err := ffmpeg.ProbeVersion()
	if err != nil {
		log.Errorln(err)
	}

	free, err := getFreeSpace(config.GetDataDir())
	if err != nil {
		log.Errorln(err)
	}
	used, err := getDirectorySize(config.GetDataDir())
	if err != nil {
		log.Errorln(err)
	}

	freeMiB := float64(free) / 1024 / 1024
	usedMiB := float64(used) / 1024 / 1024

	return c.JSON(http.StatusOK, map[string]interface{}{
		"gitSHA":     config.GetGitSHA(),
		"buildDate":  config.GetBuildDate(),
		"ffmpeg":     ffmpegVersion,
		"ffprobe":    ffprobeVersion,
		"activeJobs": registry.ActiveCount(),
		"activeIds":  registry.ActiveIDs(),
		"freeMiB":    fmt.Sprintf("%.2f", freeMiB),
		"usedMiB":    fmt.Sprintf("%.2f", usedMiB),
	})
}
