package logger

import (
	"io"
	"log"
	"strings"

	"github.com/fatih/color"
	"github.com/fujiwara/logutils"
)

// Levels lists the accepted log levels from most to least verbose.
var Levels = []logutils.LogLevel{"debug", "info", "warn", "error"}

// Setup routes the standard logger through a level filter writing to out.
func Setup(out io.Writer, minLevel string) {
	filter := &logutils.LevelFilter{
		Levels: Levels,
		ModifierFuncs: []logutils.ModifierFunc{
			logutils.Color(color.FgHiBlack),
			nil,
			logutils.Color(color.FgYellow),
			logutils.Color(color.FgRed, color.BgBlack),
		},
		MinLevel: logutils.LogLevel(strings.ToLower(minLevel)),
		Writer:   out,
	}
	log.SetOutput(filter)
}

// ValidLevel reports whether level is one of Levels.
func ValidLevel(level string) bool {
	level = strings.ToLower(level)
	for _, l := range Levels {
		if string(l) == level {
			return true
		}
	}
	return false
}
