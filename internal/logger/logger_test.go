package logger

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

func TestGetLogger(t *testing.T) {
	if GetLogger() == nil {
		t.Errorf("GetLogger() = nil, expected a non-nil logger")
	}
}

func TestGetLoggerConcurrent(t *testing.T) {
	var waitGroup sync.WaitGroup

	waitGroup.Add(2)
	for routine := 0; routine < 2; routine++ {
		go func(routineNum int) {
			defer waitGroup.Done()
			for i := 0; i < 1000; i++ {
				if GetLogger() == nil {
					t.Errorf("GetLogger() = nil in goroutine %d, expected a non-nil logger", routineNum)
				}
			}
		}(routine)
	}
	waitGroup.Wait()
}

func TestGetLoggerConfigured(t *testing.T) {
	log := GetLoggerConfigured(zerolog.Disabled)
	if log == nil {
		t.Errorf("GetLoggerConfigured() = nil, expected a non-nil logger")
	}
	if log != &Log {
		t.Errorf("GetLoggerConfigured() returned %p, expected the shared logger %p", log, &Log)
	}
}
