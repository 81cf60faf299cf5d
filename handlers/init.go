package handlers

import (
	"github.com/sirupsen/logrus"

	"quartz-render/export"
)

var log *logrus.Logger
var registry *export.Registry

func Init(logger *logrus.Logger, reg *export.Registry) error {
	log = logger.WithFields(logrus.Fields{
		"component": "handlers",
	}).Logger
	registry = reg
	return nil
}

func Fini() {}
