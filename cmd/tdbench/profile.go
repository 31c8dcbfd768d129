package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
	"github.com/sirupsen/logrus"
)

// profileCPUAndMem samples CPU and memory use of this process every second
// into file until ctx is done.
func profileCPUAndMem(ctx context.Context, file string) {
	f, err := os.Create(file)
	if err != nil {
		logrus.WithError(err).Error("could not create profile file")
		return
	}
	defer f.Close()

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		logrus.WithError(err).Error("could not inspect own process")
		return
	}

	fmt.Fprintf(f, "time,cpu,rss,vms,swap\n")
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			cpu, err := proc.CPUPercent()
			if err != nil {
				continue
			}
			mem, err := proc.MemoryInfo()
			if err != nil {
				continue
			}
			fmt.Fprintf(f, "%d,%f,%d,%d,%d\n", now.Unix(), cpu, mem.RSS, mem.VMS, mem.Swap)
		}
	}
}
