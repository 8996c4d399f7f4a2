//go:build linux

package event

import (
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// maxEvents bounds how many ready sources one Wait call services.
const maxEvents = 8

// Multiplexer waits on registered sources with epoll and invokes their handlers.
// It is not safe for concurrent use, except Wake.
type Multiplexer struct {
	epfd     int
	wakefd   int
	handlers map[int32]Handler
	events   [maxEvents]unix.EpollEvent
	closed   bool
}

// NewMultiplexer allocates an epoll context with an internal wakeup descriptor.
func NewMultiplexer() (*Multiplexer, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("%w: epoll create: %w", ErrResource, err)
	}

	wakefd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		unix.Close(epfd)
		return nil, fmt.Errorf("%w: eventfd: %w", ErrResource, err)
	}

	m := &Multiplexer{
		epfd:     epfd,
		wakefd:   wakefd,
		handlers: make(map[int32]Handler),
	}
	if err := m.add(wakefd, unix.EPOLLIN, HandlerFunc(m.drainWake)); err != nil {
		unix.Close(wakefd)
		unix.Close(epfd)
		return nil, fmt.Errorf("%w: register wakeup: %w", ErrResource, err)
	}

	return m, nil
}

// Register adds src to the watch list. h is invoked from Wait whenever src is ready.
func (m *Multiplexer) Register(src Source, interest Interest, h Handler) error {
	if m.closed {
		return fmt.Errorf("%w: multiplexer closed", ErrRegistration)
	}
	if src == nil || h == nil {
		return fmt.Errorf("%w: nil source or handler", ErrRegistration)
	}
	fd := src.Fd()
	if fd < 0 {
		return fmt.Errorf("%w: invalid descriptor %d", ErrRegistration, fd)
	}
	if _, ok := m.handlers[int32(fd)]; ok {
		return fmt.Errorf("%w: descriptor %d already registered", ErrRegistration, fd)
	}

	var mask uint32
	if interest&Readable != 0 {
		mask |= unix.EPOLLIN
	}
	if interest&Writable != 0 {
		mask |= unix.EPOLLOUT
	}
	if mask == 0 {
		return fmt.Errorf("%w: empty interest mask", ErrRegistration)
	}

	if err := m.add(fd, mask, h); err != nil {
		return fmt.Errorf("%w: %w", ErrRegistration, err)
	}
	return nil
}

// Deregister removes src from the watch list.
func (m *Multiplexer) Deregister(src Source) error {
	fd := src.Fd()
	if _, ok := m.handlers[int32(fd)]; !ok {
		return fmt.Errorf("%w: descriptor %d not registered", ErrRegistration, fd)
	}
	if err := unix.EpollCtl(m.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return fmt.Errorf("%w: epoll ctl del: %w", ErrRegistration, err)
	}
	delete(m.handlers, int32(fd))
	return nil
}

func (m *Multiplexer) add(fd int, mask uint32, h Handler) error {
	ev := unix.EpollEvent{Events: mask, Fd: int32(fd)}
	if err := unix.EpollCtl(m.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("epoll ctl add: %w", err)
	}
	m.handlers[int32(fd)] = h
	return nil
}

// Wait blocks until at least one source is ready, then invokes the handler of
// every ready source once. Interruption by a signal returns nil without
// dispatching. The first handler error is returned at once; the remaining
// ready sources stay pending for the next Wait.
func (m *Multiplexer) Wait() error {
	if m.closed {
		return fmt.Errorf("%w: multiplexer closed", ErrResource)
	}

	n, err := unix.EpollWait(m.epfd, m.events[:], -1)
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return nil
		}
		return fmt.Errorf("%w: epoll wait: %w", ErrWait, err)
	}

	for i := 0; i < n; i++ {
		h, ok := m.handlers[m.events[i].Fd]
		if !ok {
			continue
		}
		if err := h.HandleReadiness(); err != nil {
			return err
		}
	}
	return nil
}

// Wake makes a blocked or upcoming Wait return. It only writes to the wakeup
// descriptor and may be called from any goroutine while the multiplexer is open.
func (m *Multiplexer) Wake() error {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], 1)
	if _, err := unix.Write(m.wakefd, buf[:]); err != nil && !errors.Is(err, unix.EAGAIN) {
		return fmt.Errorf("wake: %w", err)
	}
	return nil
}

func (m *Multiplexer) drainWake() error {
	var buf [8]byte
	if _, err := unix.Read(m.wakefd, buf[:]); err != nil && !errors.Is(err, unix.EAGAIN) {
		return fmt.Errorf("drain wakeup: %w", err)
	}
	return nil
}

// Close releases the epoll context. A second call returns ErrResource.
func (m *Multiplexer) Close() error {
	if m.closed {
		return fmt.Errorf("%w: multiplexer already closed", ErrResource)
	}
	m.closed = true
	m.handlers = nil

	var errs []error
	if err := unix.Close(m.wakefd); err != nil {
		errs = append(errs, fmt.Errorf("close eventfd: %w", err))
	}
	if err := unix.Close(m.epfd); err != nil {
		errs = append(errs, fmt.Errorf("close epoll: %w", err))
	}
	return errors.Join(errs...)
}
