// Package statsview serves runtime statistics of the emulator process over
// http.
package statsview

import (
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/retroenv/retrogolib/log"
)

// Address is the default listen address
const Address = "localhost:12600"

const path = "/debug/statsview"

// Launch starts the stats server in a new goroutine and returns the URL it
// will be available at.
func Launch(logger *log.Logger, addr string) string {
	if addr == "" {
		addr = Address
	}
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(addr))
		mgr := statsview.New()
		if err := mgr.Start(); err != nil {
			logger.Error("Stats server stopped", log.Err(err))
		}
	}()

	url := "http://" + addr + path
	logger.Info("Stats server available", log.String("url", url))
	return url
}
