package dev

import (
	"fmt"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/robinovitch61/vl/internal/message"
	"k8s.io/klog/v2"
	"log"
	"os"
)

var debugSet = os.Getenv("VL_DEBUG")
var debugPath = os.Getenv("VL_DEBUG_PATH")

func Debug(msg string) {
	if debugPath == "" {
		debugPath = "vl.log"
	}
	if debugSet != "" {
		file, err := os.OpenFile(debugPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			log.Fatal(err)
		}
		defer file.Close()
		logger := log.New(file, "", log.Ldate|log.Lmicroseconds)
		logger.Printf("%q", msg)
	}
}

// Enabled reports whether debug logging is on
func Enabled() bool {
	return debugSet != ""
}

// Warn records something that went wrong but was recovered from
func Warn(msg string, keysAndValues ...any) {
	Debug(fmt.Sprintf("WARN %s %v", msg, keysAndValues))
	klog.InfoS(msg, keysAndValues...)
}

func Error(err error, msg string, keysAndValues ...any) {
	Debug(fmt.Sprintf("ERROR %s: %v %v", msg, err, keysAndValues))
	klog.ErrorS(err, msg, keysAndValues...)
}

func DebugUpdateMsg(component string, msg tea.Msg) {
	switch msg.(type) {
	case message.FrameMsg, message.IncubateMsg:
	// skip logging messages that are too frequent
	default:
		Debug("--")
		Debug(fmt.Sprintf("Update %s: %T", component, msg))
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			Debug(fmt.Sprintf("  Key: '%v'", keyMsg.String()))
		}
	}
}
