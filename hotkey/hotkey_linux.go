//go:build linux

package hotkey

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	evdev "github.com/holoplot/go-evdev"

	"snipe/log"
)

// PassthroughName is the uinput device that re-emits events the handler
// lets through.
const PassthroughName = "snipe-passthrough"

const (
	busUSB = 0x03

	// Keys held while the daemon starts (Enter in a terminal) must be
	// released before the grab, or their release lands on another device.
	grabDelay = 300 * time.Millisecond
)

// passthroughWriter is the virtual device re-emitted events are written to.
type passthroughWriter interface {
	WriteOne(ev *evdev.InputEvent) error
	Close() error
}

type evdevListener struct {
	devices []*evdev.InputDevice
	out     passthroughWriter
	caps    capabilities
	events  chan *evdev.InputEvent
	stop    chan struct{}
	once    sync.Once
	readers sync.WaitGroup
	done    chan struct{}
}

// New creates a listener that grabs every keyboard under /dev/input and
// forwards what the handler passes through to a virtual keyboard.
// Requires read access to /dev/input (the 'input' group) and write access
// to /dev/uinput. Combos are not needed: every key event is observed.
func New(_ []string) Listener {
	return &evdevListener{}
}

func (l *evdevListener) Register(h HandlerFunc) error {
	keyboards, err := findKeyboards()
	if err != nil {
		return fmt.Errorf("finding keyboards: %w", err)
	}
	if len(keyboards) == 0 {
		return errors.New("no keyboard devices found (is user in 'input' group?)")
	}

	var devices []*evdev.InputDevice
	for _, path := range keyboards {
		dev, err := evdev.Open(path)
		if err != nil {
			continue
		}
		if !grabbable(dev) {
			log.Infof("not grabbing %s: absolute pointer axes", path)
			dev.Close()
			continue
		}
		devices = append(devices, dev)
	}
	if len(devices) == 0 {
		return errors.New("could not open any keyboard device (run: sudo usermod -aG input $USER, then re-login)")
	}

	srcs := make([]capabilitySource, len(devices))
	for i, dev := range devices {
		srcs[i] = dev
	}
	l.caps = passthroughCapabilities(srcs...)

	out, err := evdev.CreateDevice(PassthroughName, evdev.InputID{
		BusType: busUSB,
		Vendor:  0x1234,
		Product: 0x5679,
		Version: 1,
	}, l.caps)
	if err != nil {
		for _, dev := range devices {
			dev.Close()
		}
		return fmt.Errorf("creating passthrough device (try: sudo modprobe uinput): %w", err)
	}
	l.out = out

	time.Sleep(grabDelay)

	l.start()

	for _, dev := range devices {
		if err := dev.Grab(); err != nil {
			dev.Close()
			continue
		}
		l.devices = append(l.devices, dev)
		l.readers.Add(1)
		go l.readEvents(dev)
	}

	if len(l.devices) == 0 {
		out.Close()
		l.out, l.done = nil, nil
		return errors.New("could not grab any keyboard device (run: sudo usermod -aG input $USER, then re-login)")
	}

	go l.loop(h)
	return nil
}

func (l *evdevListener) start() {
	l.stop = make(chan struct{})
	l.done = make(chan struct{})
	l.events = make(chan *evdev.InputEvent, 64)
}

func (l *evdevListener) readEvents(dev *evdev.InputDevice) {
	defer l.readers.Done()
	for {
		ev, err := dev.ReadOne()
		if err != nil {
			return
		}
		select {
		case l.events <- ev:
		case <-l.stop:
			return
		}
	}
}

// loop is the only caller of h, so events from all keyboards are handled
// one at a time in arrival order.
func (l *evdevListener) loop(h HandlerFunc) {
	defer close(l.done)
	for {
		select {
		case <-l.stop:
			return
		case ev := <-l.events:
			if h(translate(ev)) == Suppress {
				continue
			}
			if !l.caps.covers(ev) {
				continue
			}
			if err := l.out.WriteOne(ev); err != nil {
				log.Warnf("passthrough write %s: %v", ev.CodeName(), err)
			}
		}
	}
}

func (l *evdevListener) Unregister() {
	l.once.Do(func() {
		if l.stop != nil {
			close(l.stop)
		}
		for _, dev := range l.devices {
			dev.Ungrab()
			dev.Close()
		}
		l.readers.Wait()
		if l.done != nil {
			<-l.done
		}
		if l.out != nil {
			l.out.Close()
		}
	})
}

func findKeyboards() ([]string, error) {
	entries, err := os.ReadDir("/dev/input")
	if err != nil {
		return nil, err
	}

	var keyboards []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "event") {
			continue
		}
		if deviceName(e.Name()) == PassthroughName {
			continue
		}
		if isKeyboard(e.Name()) {
			keyboards = append(keyboards, filepath.Join("/dev/input", e.Name()))
		}
	}
	return keyboards, nil
}

func deviceName(eventName string) string {
	data, err := os.ReadFile(filepath.Join("/sys/class/input", eventName, "device", "name"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func isKeyboard(eventName string) bool {
	capsPath := filepath.Join("/sys/class/input", eventName, "device", "capabilities", "key")
	data, err := os.ReadFile(capsPath)
	if err != nil {
		return false
	}
	// Real keyboards have long key capability bitmaps
	caps := strings.TrimSpace(string(data))
	return len(caps) > 10
}

// Diagnose checks keyboard and uinput access and returns a status message.
func Diagnose() (string, error) {
	keyboards, err := findKeyboards()
	if err != nil {
		return "", fmt.Errorf("cannot scan input devices: %w", err)
	}
	if len(keyboards) == 0 {
		return "", errors.New("no keyboard devices found (is user in 'input' group?)")
	}

	var opened string
	for _, path := range keyboards {
		dev, err := evdev.Open(path)
		if err == nil {
			dev.Close()
			opened = path
			break
		}
	}
	if opened == "" {
		return "", fmt.Errorf("found %d keyboard(s) but cannot open any (run: sudo usermod -aG input $USER)", len(keyboards))
	}

	f, err := os.OpenFile("/dev/uinput", os.O_WRONLY, 0)
	if err != nil {
		return "", fmt.Errorf("cannot open /dev/uinput for passthrough: %w (fix: sudo chmod 660 /dev/uinput && sudo chgrp input /dev/uinput)", err)
	}
	f.Close()

	return fmt.Sprintf("%d keyboard(s) found, opened %s, uinput writable", len(keyboards), opened), nil
}
