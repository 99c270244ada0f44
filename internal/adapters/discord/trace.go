package discord

import (
	"log"
	"time"
)

// step mide cuánto tardó un paso pesado (broadcasts, kills).
// Uso: defer step("notify.broadcast")()
func step(label string) func() {
	start := time.Now()
	return func() { log.Printf("[trace] %s tardó %s", label, time.Since(start)) }
}
