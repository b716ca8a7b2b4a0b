package db

import (
	"log"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func gormConfig(logger *logrus.Logger) *gorm.Config {
	cfg := &gorm.Config{TranslateError: true}
	if logger == nil {
		cfg.Logger = gormlogger.Discard
		return cfg
	}
	level := gormlogger.Warn
	if logger.IsLevelEnabled(logrus.DebugLevel) {
		level = gormlogger.Info
	}
	cfg.Logger = gormlogger.New(
		log.New(logger.WriterLevel(logrus.WarnLevel), "", 0),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		},
	)
	return cfg
}
