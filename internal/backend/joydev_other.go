//go:build !linux

package backend

import "errors"

func newJoydev(Sink) (Backend, error) {
	return nil, errors.New("joydev backend is only available on linux")
}
