// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/bureau-foundation/lcdd/lib/lcd"
	"github.com/bureau-foundation/lcdd/lib/raster"
	"github.com/bureau-foundation/lcdd/lib/sysstat"
)

type screen int

const (
	screenCPU screen = iota
	screenMemory
	screenSwap
	screenNet
	screenLoad
	screenCount
)

var screenNames = [screenCount]string{"cpu", "memory", "swap", "net", "load"}

func (s screen) String() string {
	if s < 0 || s >= screenCount {
		return fmt.Sprintf("screen(%d)", int(s))
	}
	return screenNames[s]
}

func parseScreen(name string) (screen, error) {
	for index, candidate := range screenNames {
		if candidate == name {
			return screen(index), nil
		}
	}
	return 0, fmt.Errorf("unknown screen %q (want one of %s)", name, strings.Join(screenNames[:], ", "))
}

// next returns the screen after s. The network screen is skipped when
// no interface is being watched.
func (s screen) next(haveNet bool) screen {
	following := (s + 1) % screenCount
	if following == screenNet && !haveNet {
		following = (following + 1) % screenCount
	}
	return following
}

// Layout, in 0-based pixels. Two gauge rows share the top of the
// panel; the information line sits under a rule at the bottom.
const (
	labelX     = 1
	barLeft    = 64
	barRight   = 157
	graphRight = 158
	separatorY = 28
	infoY      = separatorY + 2
)

var rowY = [2]int{0, 14}

// render draws one complete screen into frame.
func render(frame *lcd.Frame, which screen, sample Sample) {
	raster.Clear(frame, lcd.Background)

	var info string
	switch which {
	case screenMemory:
		info = drawMemory(frame, sample.Memory)
	case screenSwap:
		info = drawSwap(frame, sample.Memory)
	case screenNet:
		info = drawNet(frame, sample)
	case screenLoad:
		info = drawLoad(frame, sample)
	default:
		info = drawCPU(frame, sample)
	}

	raster.Line(frame, 1, separatorY+1, lcd.Width, separatorY+1, lcd.Foreground)
	raster.CenteredText(frame, infoY, info, lcd.Foreground)
}

// gauge draws a labelled bar on one of the two rows.
func gauge(frame *lcd.Frame, row int, label string, value, total int64, style raster.BarStyle) {
	y := rowY[row]
	raster.Text(frame, labelX, y, label, lcd.Foreground)
	raster.Bar(frame, barLeft, y+2, barRight, y+10, lcd.Foreground, value, total, style)
}

// percentGauge draws a gauge for a percentage. The value is offset by
// one so an idle gauge still shows its frame.
func percentGauge(frame *lcd.Frame, row int, label string, percent float64, style raster.BarStyle) {
	gauge(frame, row, label, int64(percent*10)+1, 1001, style)
}

func percentOf(part, whole uint64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func drawCPU(frame *lcd.Frame, sample Sample) string {
	usage := sample.CPU
	percentGauge(frame, 0, fmt.Sprintf("Usr %3.0f%%", usage.User+usage.Nice), usage.User+usage.Nice, raster.BarFramed)
	percentGauge(frame, 1, fmt.Sprintf("Sys %3.0f%%", usage.System), usage.System, raster.BarFramed)
	if sample.Cores > 0 {
		return fmt.Sprintf("CPU %3.0f%% %d cores", usage.Busy, sample.Cores)
	}
	return fmt.Sprintf("CPU %3.0f%%", usage.Busy)
}

func drawMemory(frame *lcd.Frame, memory sysstat.Memory) string {
	if memory.Total == 0 {
		raster.CenteredText(frame, rowY[1], "No memory data", lcd.Foreground)
		return "sysinfo unavailable"
	}
	used := percentOf(memory.Used(), memory.Total)
	buffers := percentOf(memory.Buffers, memory.Total)
	percentGauge(frame, 0, fmt.Sprintf("Used %3.0f%%", used), used, raster.BarFramed)
	percentGauge(frame, 1, fmt.Sprintf("Buf %3.0f%%", buffers), buffers, raster.BarFramed)
	return humanize.IBytes(memory.Used()) + " / " + humanize.IBytes(memory.Total)
}

func drawSwap(frame *lcd.Frame, memory sysstat.Memory) string {
	if memory.SwapTotal == 0 {
		raster.CenteredText(frame, rowY[1], "No swap", lcd.Foreground)
		return "swap disabled"
	}
	used := percentOf(memory.SwapUsed(), memory.SwapTotal)
	free := percentOf(memory.SwapFree, memory.SwapTotal)
	percentGauge(frame, 0, fmt.Sprintf("Swap %3.0f%%", used), used, raster.BarFramed)
	percentGauge(frame, 1, fmt.Sprintf("Free %3.0f%%", free), free, raster.BarReversed)
	return humanize.IBytes(memory.SwapUsed()) + " / " + humanize.IBytes(memory.SwapTotal)
}

func drawNet(frame *lcd.Frame, sample Sample) string {
	if !sample.HaveNet {
		raster.CenteredText(frame, rowY[1], "No data", lcd.Foreground)
		return sample.Interface + " unavailable"
	}

	raster.Text(frame, labelX, rowY[0], "Rx "+humanize.Bytes(sample.Net.Receive), lcd.Foreground)
	raster.Text(frame, labelX, rowY[1], "Tx "+humanize.Bytes(sample.Net.Transmit), lcd.Foreground)

	receive := make([]uint64, len(sample.NetHistory))
	transmit := make([]uint64, len(sample.NetHistory))
	for i, rate := range sample.NetHistory {
		receive[i], transmit[i] = rate.Receive, rate.Transmit
	}
	graph(frame, rowY[0]+12, receive, sample.NetPeak.Receive)
	graph(frame, rowY[1]+12, transmit, sample.NetPeak.Transmit)

	peak := max(sample.NetPeak.Receive, sample.NetPeak.Transmit)
	return fmt.Sprintf("%s peak %s/s", sample.Interface, humanize.Bytes(peak))
}

// graphHeight is the tallest line graph, leaving a pixel between the
// two rows.
const graphHeight = 11

// graph draws values as a line graph whose baseline is row baseline,
// newest value at graphRight, scaled so peak reaches graphHeight.
func graph(frame *lcd.Frame, baseline int, values []uint64, peak uint64) {
	if len(values) == 0 {
		return
	}
	start := max(len(values)-(graphRight-barLeft+1), 0)
	values = values[start:]

	previousX, previousY := -1, 0
	for i, value := range values {
		x := graphRight - (len(values) - 1 - i)
		y := baseline
		if peak > 0 {
			y -= int(min(value, peak) * graphHeight / peak)
		}
		if previousX < 0 {
			raster.SetPixel(frame, x, y, lcd.Foreground)
		} else {
			raster.Line(frame, previousX+1, previousY+1, x+1, y+1, lcd.Foreground)
		}
		previousX, previousY = x, y
	}
}

func drawLoad(frame *lcd.Frame, sample Sample) string {
	if !sample.HaveLoad {
		raster.CenteredText(frame, rowY[1], "No load data", lcd.Foreground)
	} else {
		// Full scale is one runnable task per core.
		capacity := int64(max(sample.Cores, 1)) * 100
		one := int64(sample.Load.One*100) + 1
		fifteen := int64(sample.Load.Fifteen*100) + 1
		gauge(frame, 0, fmt.Sprintf("1m %5.2f", sample.Load.One), one, capacity+1, raster.BarFramed)
		gauge(frame, 1, fmt.Sprintf("15m %5.2f", sample.Load.Fifteen), fifteen, capacity+1, raster.BarFramed)
	}
	info := formatUptime(sample.Memory.Uptime)
	if sample.Memory.Processes > 0 {
		info += fmt.Sprintf(", %d procs", sample.Memory.Processes)
	}
	return info
}

// formatUptime renders uptime the way a status line would: days and
// hours once it exceeds a day, hours and minutes before that.
func formatUptime(uptime time.Duration) string {
	total := int64(uptime / time.Minute)
	days := total / (24 * 60)
	hours := total / 60 % 24
	minutes := total % 60
	if days > 0 {
		return fmt.Sprintf("up %dd %dh", days, hours)
	}
	return fmt.Sprintf("up %dh %02dm", hours, minutes)
}
