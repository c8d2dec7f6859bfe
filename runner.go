package main

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
)

// chunkQueueDepth bounds the reader-to-UI handoff queue. The reader goroutine
// blocks once the UI falls this far behind, which keeps memory bounded while
// a chatty script runs.
const chunkQueueDepth = 64

// readChunkSize is how much script output one read may hand over at a time.
const readChunkSize = 4096

type runnerState int

const (
	runnerNotStarted runnerState = iota
	runnerRunning
	runnerExited
)

// scriptStream holds the live resources for a running script: the child
// process, the read end of its combined output pipe, and the channel the
// reader goroutine delivers chunks on. The channel is closed on EOF; the
// update loop is the only consumer and the only place that calls wait.
type scriptStream struct {
	cmd    *exec.Cmd
	pipe   *os.File
	chunks chan []byte
}

type scriptStartedMsg struct {
	stream *scriptStream
}

type scriptSpawnErrMsg struct {
	err error
}

type scriptChunkMsg struct {
	data []byte
}

type scriptExitMsg struct {
	code int
}

// startScriptCmd launches the command line under `sh -c` with stdout and
// stderr merged into a single pipe. The spawn happens off the update loop;
// failure is reported as a message rather than an error since the viewer
// stays up to display it.
func startScriptCmd(line string) tea.Cmd {
	return func() tea.Msg {
		cmd := exec.Command("sh", "-c", line)

		r, w, err := os.Pipe()
		if err != nil {
			return scriptSpawnErrMsg{err: fmt.Errorf("creating pipe: %w", err)}
		}

		cmd.Stdout = w
		cmd.Stderr = w

		if err := cmd.Start(); err != nil {
			w.Close()
			r.Close()
			return scriptSpawnErrMsg{err: err}
		}

		// Close the write end in the parent so the reader sees EOF once the
		// child exits and its copy is closed.
		w.Close()

		stream := &scriptStream{
			cmd:    cmd,
			pipe:   r,
			chunks: make(chan []byte, chunkQueueDepth),
		}

		go func() {
			for {
				buf := make([]byte, readChunkSize)
				n, err := r.Read(buf)
				if n > 0 {
					stream.chunks <- buf[:n]
				}
				if err != nil {
					close(stream.chunks)
					return
				}
			}
		}()

		return scriptStartedMsg{stream: stream}
	}
}

// waitForChunkCmd delivers the next output chunk, or the final exit status
// once the stream has drained.
func waitForChunkCmd(s *scriptStream) tea.Cmd {
	return func() tea.Msg {
		data, ok := <-s.chunks
		if ok {
			return scriptChunkMsg{data: data}
		}
		s.pipe.Close()
		return scriptExitMsg{code: mapWaitError(s.cmd.Wait())}
	}
}

// cleanupScriptCmd kills and reaps a still-running child when the viewer is
// dismissed first, so no process outlives the session.
func cleanupScriptCmd(s *scriptStream) tea.Cmd {
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		if s.cmd != nil && s.cmd.Process != nil {
			_ = s.cmd.Process.Kill()
			_ = s.cmd.Wait()
		}
		if s.pipe != nil {
			_ = s.pipe.Close()
		}
		return nil
	}
}

// mapWaitError turns the child's wait result into the viewer's exit status:
// normal exits pass through, signal termination maps to 128+signal, and
// anything unexpected falls back to the spawn-failure sentinel.
func mapWaitError(err error) int {
	if err == nil {
		return 0
	}
	ee, ok := err.(*exec.ExitError)
	if !ok {
		return exitCodeSpawn
	}
	if ws, ok := ee.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return ee.ExitCode()
}
