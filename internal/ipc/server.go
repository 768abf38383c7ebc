/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

// Package ipc exposes a sound manager over a line protocol on a unix socket.
//
// Read-only verbs (PING, ABOUT, WHOAMI, STATUS, LIST) are open to every
// client. Control verbs make the caller the control owner until it
// disconnects; other clients get ERR CONTROL_LOCKED meanwhile. The owner
// receives "EVENT {json}" lines for playback and state changes.
package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"

	"hdxsfx/internal/log"
	"hdxsfx/pkg/sfx"
	"hdxsfx/pkg/spec"
)

type client struct {
	conn net.Conn
	wmu  sync.Mutex
}

func (c *client) send(line string) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_, err := c.conn.Write([]byte(line + "\n"))
	return err
}

// Server is the control socket front end of a sfx.Manager.
type Server struct {
	log *log.Logger
	mgr *sfx.Manager

	controlMu sync.Mutex
	owner     *client

	lnMu sync.Mutex
	ln   net.Listener
	wg   sync.WaitGroup

	connMu   sync.Mutex
	conns    map[net.Conn]struct{}
	shutdown bool
}

// NewServer returns a server without a manager. Pass Notify to
// sfx.WithObserver, then Attach the manager before serving.
func NewServer(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Discard()
	}
	return &Server{log: logger, conns: make(map[net.Conn]struct{})}
}

// Attach sets the manager the server drives.
func (s *Server) Attach(mgr *sfx.Manager) { s.mgr = mgr }

// ===============================
// Ownership
// ===============================

func (s *Server) isOwner(c *client) bool {
	s.controlMu.Lock()
	defer s.controlMu.Unlock()
	return s.owner == c
}

func (s *Server) claimOwner(c *client) bool {
	s.controlMu.Lock()
	defer s.controlMu.Unlock()
	if s.owner == nil {
		s.owner = c
		return true
	}
	return s.owner == c
}

func (s *Server) releaseOwner(c *client) {
	s.controlMu.Lock()
	defer s.controlMu.Unlock()
	if s.owner == c {
		s.owner = nil
		s.log.Debugf("control released")
	}
}

// ===============================
// Events
// ===============================

type wireEvent struct {
	Type string `json:"type"`
	sfx.Event
}

type stateEvent struct {
	Type         string `json:"type"`
	MasterVolume int    `json:"master_volume"`
	Muted        bool   `json:"muted"`
}

// Notify forwards a manager event to the control owner. It is safe to call
// before any client connects.
func (s *Server) Notify(ev sfx.Event) {
	s.push(wireEvent{Type: ev.Type.String(), Event: ev})
}

func (s *Server) notifyState(kind string) {
	s.push(stateEvent{Type: kind, MasterVolume: s.mgr.MasterVolume(), Muted: s.mgr.Muted()})
}

func (s *Server) push(v any) {
	s.controlMu.Lock()
	owner := s.owner
	s.controlMu.Unlock()
	if owner == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Errorf("encode event: %v", err)
		return
	}
	if err := owner.send(spec.EventPrefix + " " + string(b)); err != nil {
		s.releaseOwner(owner)
	}
}

// ===============================
// Listener
// ===============================

// Listen binds the unix socket at path, removing a stale one first.
func (s *Server) Listen(path string) error {
	_ = os.Remove(path)
	ln, err := net.Listen("unix", path)
	if err != nil {
		return fmt.Errorf("ipc: listen %s: %w", path, err)
	}
	s.lnMu.Lock()
	s.ln = ln
	s.lnMu.Unlock()
	s.log.Infof("listening on %s", path)
	return nil
}

// Serve accepts clients until ctx is done or the listener is closed.
func (s *Server) Serve(ctx context.Context) error {
	s.lnMu.Lock()
	ln := s.ln
	s.lnMu.Unlock()
	if ln == nil {
		return errors.New("ipc: Serve before Listen")
	}

	go func() {
		<-ctx.Done()
		ln.Close()
		s.closeConns()
	}()

	for {
		c, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.wg.Wait()
				return nil
			}
			s.log.Warnf("accept: %v", err)
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.HandleConn(ctx, c)
		}()
	}
}

// Close stops the listener and disconnects every client.
func (s *Server) Close() error {
	s.closeConns()
	s.lnMu.Lock()
	defer s.lnMu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}

// ===============================
// Connection
// ===============================

// track registers a live connection. It fails once shutdown has begun.
func (s *Server) track(conn net.Conn) bool {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.shutdown {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	delete(s.conns, conn)
}

// closeConns closes every live connection so blocked readers return.
func (s *Server) closeConns() {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	s.shutdown = true
	for conn := range s.conns {
		conn.Close()
	}
}

// HandleConn serves one client until it disconnects or the server shuts down.
func (s *Server) HandleConn(ctx context.Context, conn net.Conn) {
	if !s.track(conn) {
		conn.Close()
		return
	}
	c := &client{conn: conn}
	defer func() {
		s.releaseOwner(c)
		s.untrack(conn)
		conn.Close()
	}()

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		parts := strings.Fields(line)
		reply := s.dispatch(ctx, c, parts[0], parts[1:])
		if err := c.send(reply); err != nil {
			return
		}
	}
}

func (s *Server) dispatch(ctx context.Context, c *client, verb string, args []string) string {
	cmd := strings.ToUpper(verb)

	// read-only
	switch cmd {
	case "PING":
		return "Pong"
	case "ABOUT":
		return fmt.Sprintf("%s V.%s", spec.ServerName, spec.Version)
	case "WHOAMI":
		if s.isOwner(c) {
			return "OWNER"
		}
		return "OBSERVER"
	case "STATUS":
		return jsonLine(s.mgr.Snapshot())
	case "LIST":
		return jsonLine(s.mgr.Names())
	}

	// control
	if !s.claimOwner(c) {
		return "ERR CONTROL_LOCKED"
	}

	switch cmd {
	case "LOAD":
		if len(args) < 2 || len(args) > 3 {
			return "ERR ARG"
		}
		vol, ok := optInt(args, 2)
		if !ok {
			return "ERR ARG"
		}
		if err := s.mgr.Load(ctx, args[0], args[1], vol...); err != nil {
			s.log.Warnf("load %s: %v", args[0], err)
			return errReply(err)
		}
		return "OK"

	case "TAG":
		if len(args) < 2 || len(args) > 3 {
			return "ERR ARG"
		}
		vol, ok := optInt(args, 2)
		if !ok {
			return "ERR ARG"
		}
		if !s.mgr.Tag(args[0], args[1], vol...) {
			return "ERR NOT_FOUND"
		}
		return "OK"

	case "PLAY":
		if len(args) < 1 || len(args) > 2 {
			return "ERR ARG"
		}
		vol, ok := optInt(args, 1)
		if !ok {
			return "ERR ARG"
		}
		return s.play(args[0], vol)

	case "STOP":
		if len(args) != 1 {
			return "ERR ARG"
		}
		if !s.mgr.Stop(args[0]) {
			return "ERR NOT_PLAYING"
		}
		return "Stopped"

	case "MASTER":
		if len(args) != 1 {
			return "ERR ARG"
		}
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return "ERR ARG"
		}
		stored := s.mgr.SetMasterVolume(v)
		s.notifyState("VOLUME")
		return "OK " + strconv.Itoa(stored)

	case "MUTE", "UNMUTE", "TOGGLE-MUTE":
		if len(args) != 0 {
			return "ERR ARG"
		}
		switch cmd {
		case "MUTE":
			s.mgr.Mute()
		case "UNMUTE":
			s.mgr.Unmute()
		default:
			s.mgr.ToggleMute()
		}
		s.notifyState("MUTE")
		if s.mgr.Muted() {
			return "OK MUTED"
		}
		return "OK UNMUTED"
	}

	// localized verbs and sound shortcuts keep their case
	ok, err := s.mgr.Call(ctx, verb, args...)
	switch {
	case err != nil:
		return errReply(err)
	case !ok:
		return "ERR UNKNOWN"
	}
	return "OK"
}

func (s *Server) play(name string, vol []int) string {
	if s.mgr.Play(name, vol...) {
		if id, ok := s.mgr.Playing(name); ok {
			return "OK " + id
		}
		return "OK"
	}
	if s.mgr.Muted() {
		return "ERR MUTED"
	}
	return "ERR NOT_LOADED"
}

func optInt(args []string, idx int) ([]int, bool) {
	if len(args) <= idx {
		return nil, true
	}
	v, err := strconv.Atoi(args[idx])
	if err != nil {
		return nil, false
	}
	return []int{v}, true
}

func errReply(err error) string {
	var (
		fe *sfx.FetchError
		de *sfx.DecodeError
	)
	switch {
	case errors.Is(err, sfx.ErrUsage):
		return "ERR ARG"
	case errors.As(err, &fe):
		return "ERR FETCH"
	case errors.As(err, &de):
		return "ERR DECODE"
	}
	return "ERR INTERNAL"
}

func jsonLine(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "ERR INTERNAL"
	}
	return string(b)
}
