//go:build linux

package backend

import (
	"context"
	"encoding/binary"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/soar/inputcore/internal/gamepad"
)

const inputPath = "/dev/input"

// joydev ioctls.
const (
	jsiocgAxes    = 0x80016a11
	jsiocgButtons = 0x80016a12
	jsiocgName    = 0x80006a13 + (128 << 16)
	jsiocgAxMap   = 0x80406a32
	jsiocgBtnMap  = 0x80406a34
)

// joydev event record and type bits.
type jsEvent struct {
	Time   uint32
	Value  int16
	Type   uint8
	Number uint8
}

const (
	jsEventButton uint8 = 0x01
	jsEventAxis   uint8 = 0x02
	jsEventInit   uint8 = 0x80
)

// Linux key codes reported by JSIOCGBTNMAP. Note BTN_NORTH aliases BTN_X
// and BTN_WEST aliases BTN_Y in the kernel headers.
var linuxButtonCodes = map[uint16]gamepad.ButtonCode{
	0x130: gamepad.ButtonSouth,
	0x131: gamepad.ButtonEast,
	0x133: gamepad.ButtonNorth,
	0x134: gamepad.ButtonWest,
	0x136: gamepad.ButtonLB,
	0x137: gamepad.ButtonRB,
	0x13a: gamepad.ButtonSelect,
	0x13b: gamepad.ButtonStart,
	0x13c: gamepad.ButtonMode,
	0x13d: gamepad.ButtonLThumb,
	0x13e: gamepad.ButtonRThumb,
	0x220: gamepad.ButtonDpadUp,
	0x221: gamepad.ButtonDpadDown,
	0x222: gamepad.ButtonDpadLeft,
	0x223: gamepad.ButtonDpadRight,
}

// Linux ABS_* codes reported by JSIOCGAXMAP.
var linuxAxisCodes = map[uint8]gamepad.AxisCode{
	0x00: gamepad.AxisLeftX,
	0x01: gamepad.AxisLeftY,
	0x02: gamepad.AxisLT,
	0x03: gamepad.AxisRightX,
	0x04: gamepad.AxisRightY,
	0x05: gamepad.AxisRT,
	0x10: gamepad.AxisDpadX,
	0x11: gamepad.AxisDpadY,
}

type joydevDevice struct {
	handle  gamepad.Handle
	file    *os.File
	name    string
	buttons []gamepad.ButtonCode // by raw index; only entries flagged in bmapped carry a logical code
	axes    []gamepad.AxisCode
	mapped  map[uint8]bool // raw axis indices with a logical code
	bmapped map[uint8]bool
}

/// Joydev feeds the core from the Linux joystick interface: an inotify watch
// on /dev/input discovers js* nodes, joydev ioctls describe each device,
// and a reader goroutine per device turns the binary event stream into
// sparse samples.
type Joydev struct {
	sink Sink

	mu         sync.Mutex
	devices    map[string]*joydevDevice
	nextHandle gamepad.Handle
}

func NewJoydev(sink Sink) *Joydev {
	return &Joydev{
		sink:    sink,
		devices: make(map[string]*joydevDevice),
	}
}

func newJoydev(sink Sink) (Backend, error) {
	return NewJoydev(sink), nil
}

func (j *Joydev) Run(ctx context.Context) {
	entries, err := os.ReadDir(inputPath)
	if err != nil {
		log.Printf("joydev: cannot read %s: %v", inputPath, err)
		return
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "js") {
			j.attach(entry.Name())
		}
	}

	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK)
	if err != nil {
		log.Printf("joydev: inotify init failed: %v", err)
		return
	}
	defer unix.Close(fd)

	if _, err := unix.InotifyAddWatch(fd, inputPath, unix.IN_CREATE|unix.IN_DELETE); err != nil {
		log.Printf("joydev: inotify watch failed: %v", err)
		return
	}

	buf := make([]byte, 4096)
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}

	for {
		select {
		case <-ctx.Done():
			j.closeAll()
			return
		default:
		}

		n, err := unix.Poll(fds, 500)
		if err != nil && err != unix.EINTR {
			log.Printf("joydev: poll failed: %v", err)
			j.closeAll()
			return
		}
		if n == 0 {
			continue
		}

		n, err = unix.Read(fd, buf)
		if err != nil || n < unix.SizeofInotifyEvent {
			continue
		}

		var offset uint32
		for offset <= uint32(n-unix.SizeofInotifyEvent) {
			event := (*unix.InotifyEvent)(unsafe.Pointer(&buf[offset]))
			nameBytes := buf[offset+unix.SizeofInotifyEvent : offset+unix.SizeofInotifyEvent+event.Len]
			name := strings.TrimRight(string(nameBytes), "\x00")
			offset += unix.SizeofInotifyEvent + event.Len

			if !strings.HasPrefix(name, "js") {
				continue
			}
			switch {
			case event.Mask&unix.IN_CREATE != 0:
				j.attach(name)
			case event.Mask&unix.IN_DELETE != 0:
				j.detach(name)
			}
		}
	}
}

func (j *Joydev) attach(node string) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if _, exists := j.devices[node]; exists {
		return
	}

	path := filepath.Join(inputPath, node)
	f, err := openRetry(path)
	if err != nil {
		log.Printf("joydev: open %s: %v", path, err)
		return
	}

	var (
		devName    string
		numAxes    uint8
		numButtons uint8
		axMap      [64]uint8
		btnMap     [768]uint16
	)
	if err := ioctlStr(f, jsiocgName, &devName); err != nil {
		log.Printf("joydev: %s name: %v", node, err)
		f.Close()
		return
	}
	if err := ioctl(f, jsiocgAxes, unsafe.Pointer(&numAxes)); err != nil ||
		ioctl(f, jsiocgButtons, unsafe.Pointer(&numButtons)) != nil ||
		ioctl(f, jsiocgAxMap, unsafe.Pointer(&axMap)) != nil ||
		ioctl(f, jsiocgBtnMap, unsafe.Pointer(&btnMap)) != nil {
		log.Printf("joydev: %s ioctl failed", node)
		f.Close()
		return
	}

	vendor := readSysfsHex(node, "device/id/vendor")
	product := readSysfsHex(node, "device/id/product")
	serial := readSysfs(node, "device/uniq")

	dev := &joydevDevice{
		handle:  j.nextHandle,
		file:    f,
		name:    devName,
		buttons: make([]gamepad.ButtonCode, numButtons),
		axes:    make([]gamepad.AxisCode, numAxes),
		mapped:  make(map[uint8]bool),
		bmapped: make(map[uint8]bool),
	}
	j.nextHandle++

	meta := gamepad.Metadata{
		Name:    devName,
		Vendor:  vendor,
		Product: product,
		Serial:  serial,
		BusPath: path,
		Axes:    make(map[gamepad.AxisCode]gamepad.AxisInfo),
	}
	for i := uint8(0); i < numButtons; i++ {
		code, ok := linuxButtonCodes[btnMap[i]]
		if !ok {
			continue
		}
		dev.buttons[i] = code
		dev.bmapped[i] = true
		meta.Buttons = append(meta.Buttons, code)
	}
	for i := uint8(0); i < numAxes; i++ {
		code, ok := linuxAxisCodes[axMap[i]]
		if !ok {
			continue
		}
		dev.axes[i] = code
		dev.mapped[i] = true
		info := gamepad.AxisInfo{Min: -32767, Max: 32767}
		switch code {
		case gamepad.AxisLT, gamepad.AxisRT:
			info.Trigger = true
			d := defaultDeadzone
			info.Deadzone = &d
		case gamepad.AxisDpadX, gamepad.AxisDpadY:
			// digital hat, no filtering
		default:
			d := defaultDeadzone
			info.Deadzone = &d
		}
		meta.Axes[code] = info
	}

	j.devices[node] = dev
	log.Printf("Joystick connected: %s (%s, VID=%04X PID=%04X) axes=%d buttons=%d",
		devName, node, vendor, product, numAxes, numButtons)

	if _, err := j.sink.OnAttach(dev.handle, meta); err != nil {
		log.Printf("joydev: attach rejected for %s: %v", devName, err)
	}

	go j.readLoop(node, dev)
}

// readLoop decodes joydev events into sparse samples, one changed field
// each. Init events carry the device's current state and are applied like
// regular events.
func (j *Joydev) readLoop(node string, dev *joydevDevice) {
	for {
		var e jsEvent
		if err := binary.Read(dev.file, binary.LittleEndian, &e); err != nil {
			j.detach(node)
			return
		}

		now := time.Now()
		switch e.Type &^ jsEventInit {
		case jsEventButton:
			if !dev.bmapped[e.Number] {
				continue
			}
			j.sink.OnSample(dev.handle, gamepad.Sample{
				Time:    now,
				Buttons: map[gamepad.ButtonCode]bool{dev.buttons[e.Number]: e.Value != 0},
			})
		case jsEventAxis:
			if !dev.mapped[e.Number] {
				continue
			}
			j.sink.OnSample(dev.handle, gamepad.Sample{
				Time: now,
				Axes: map[gamepad.AxisCode]int32{dev.axes[e.Number]: int32(e.Value)},
			})
		}
	}
}

func (j *Joydev) detach(node string) {
	j.mu.Lock()
	dev, ok := j.devices[node]
	if ok {
		delete(j.devices, node)
	}
	j.mu.Unlock()
	if !ok {
		return
	}

	dev.file.Close()
	log.Printf("Joystick disconnected: %s (%s)", dev.name, node)
	j.sink.OnDetach(dev.handle)
}

func (j *Joydev) closeAll() {
	j.mu.Lock()
	nodes := make([]string, 0, len(j.devices))
	for node := range j.devices {
		nodes = append(nodes, node)
	}
	j.mu.Unlock()
	for _, node := range nodes {
		j.detach(node)
	}
}

// openRetry retries on EACCES for a short window: udev may still be fixing
// up permissions right after the node appears.
func openRetry(path string) (*os.File, error) {
	var err error
	for i := 0; i < 5; i++ {
		var f *os.File
		if f, err = os.OpenFile(path, os.O_RDONLY, 0); err == nil {
			return f, nil
		}
		if !os.IsPermission(err) {
			return nil, err
		}
		time.Sleep(200 * time.Millisecond)
	}
	return nil, err
}

func ioctl(f *os.File, req uintptr, dest unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), req, uintptr(dest))
	if errno != 0 {
		return fmt.Errorf("ioctl 0x%x: %w", req, errno)
	}
	return nil
}

func ioctlStr(f *os.File, req uintptr, dest *string) error {
	buf := make([]byte, 128)
	if err := ioctl(f, req, unsafe.Pointer(&buf[0])); err != nil {
		return err
	}
	*dest = strings.TrimRight(string(buf), "\x00")
	return nil
}

func readSysfs(node, rel string) string {
	b, err := os.ReadFile(filepath.Join("/sys/class/input", node, rel))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

func readSysfsHex(node, rel string) uint16 {
	v, err := strconv.ParseUint(readSysfs(node, rel), 16, 16)
	if err != nil {
		return 0
	}
	return uint16(v)
}
