package logparse

import (
	"bufio"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"synnergy-network/internal/simerrors"
)

const timestampLayout = "2006-01-02 15:04:05.000"

func parseTimestamp(s string) (float64, bool) {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return 0, false
	}
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9, true
}

// parserState carries the lookahead the original daemon log format
// requires: a NOTIFY_NEW_TRANSACTIONS line is immediately followed by
// one "Including transaction <hash>" line per tx (the "(N txes)" count,
// 1 when absent; any other line ends the run early), and a
// "BLOCK SUCCESSFULLY ADDED" line is immediately followed by a
// "HEIGHT n" line.
type parserState struct {
	lastTimestamp         float64
	pendingTxNotification *pendingTx
	pendingBlockMined     bool
}

type pendingTx struct {
	sourceIP   string
	sourcePort int
	direction  Direction
	remaining  int
}

// parseFile reads one log file line by line and extracts its
// NodeLogData. Malformed or unrecognized lines are silently skipped;
// only a line bearing no valid timestamp prefix is not attributed.
func parseFile(path, nodeID string) (*NodeLogData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &simerrors.LogReadError{Path: path, Err: err}
	}
	defer f.Close()

	data := NewNodeLogData(nodeID)
	state := &parserState{}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		processLine(line, data, state)
	}
	if err := scanner.Err(); err != nil {
		return nil, &simerrors.LogReadError{Path: path, Err: err}
	}
	return data, nil
}

func processLine(line string, data *NodeLogData, state *parserState) {
	m := timestampPattern.FindStringSubmatch(line)
	if m == nil {
		return
	}
	ts, ok := parseTimestamp(m[1])
	if !ok {
		return
	}
	state.lastTimestamp = ts

	if state.pendingTxNotification != nil {
		if h := txHashPattern.FindStringSubmatch(line); h != nil {
			data.TxObservations = append(data.TxObservations, TxObservation{
				TxHash:     strings.ToLower(h[1]),
				NodeID:     data.NodeID,
				Timestamp:  ts,
				SourceIP:   state.pendingTxNotification.sourceIP,
				SourcePort: state.pendingTxNotification.sourcePort,
				Direction:  state.pendingTxNotification.direction,
			})
			state.pendingTxNotification.remaining--
			if state.pendingTxNotification.remaining <= 0 {
				state.pendingTxNotification = nil
			}
			return
		}
		state.pendingTxNotification = nil
	}
	if state.pendingBlockMined {
		if h := blockHeightPattern.FindStringSubmatch(line); h != nil {
			height, _ := strconv.ParseUint(h[1], 10, 64)
			data.BlockObservations = append(data.BlockObservations, BlockObservation{
				Height:    height,
				NodeID:    data.NodeID,
				Timestamp: ts,
				IsLocal:   true,
			})
			state.pendingBlockMined = false
			return
		}
	}

	if h := txNotificationPattern.FindStringSubmatch(line); h != nil {
		port, _ := strconv.Atoi(h[2])
		remaining := 1
		if _, after, ok := strings.Cut(line, "NOTIFY_NEW_TRANSACTIONS ("); ok {
			if n, err := strconv.Atoi(strings.SplitN(after, " ", 2)[0]); err == nil && n > 0 {
				remaining = n
			}
		}
		state.pendingTxNotification = &pendingTx{
			sourceIP:   h[1],
			sourcePort: port,
			direction:  directionFromToken(h[3]),
			remaining:  remaining,
		}
		return
	}
	if blockMinedPattern.MatchString(line) {
		state.pendingBlockMined = true
		return
	}
	if h := connectionOpenPattern.FindStringSubmatch(line); h != nil {
		port, _ := strconv.Atoi(h[2])
		data.ConnectionEvents = append(data.ConnectionEvents, ConnectionEvent{
			Timestamp: ts, PeerIP: h[1], PeerPort: port,
			ConnectionID: h[3], Direction: directionFromToken(h[4]), IsOpen: true,
		})
		return
	}
	if h := connectionClosePattern.FindStringSubmatch(line); h != nil {
		port, _ := strconv.Atoi(h[2])
		data.ConnectionEvents = append(data.ConnectionEvents, ConnectionEvent{
			Timestamp: ts, PeerIP: h[1], PeerPort: port,
			ConnectionID: h[3], Direction: directionFromToken(h[4]), IsOpen: false,
		})
		return
	}
	if h := connectionDropPattern.FindStringSubmatch(line); h != nil {
		port, _ := strconv.Atoi(h[2])
		data.ConnectionDrops = append(data.ConnectionDrops, ConnectionDrop{
			Timestamp: ts, PeerIP: h[1], PeerPort: port,
			ConnectionID: h[3], Direction: directionFromToken(h[4]),
		})
		return
	}
	if h := blockReceivedPattern.FindStringSubmatch(line); h != nil {
		data.BlockObservations = append(data.BlockObservations, BlockObservation{
			BlockHash: strings.ToLower(h[4]),
			NodeID:    data.NodeID,
			Timestamp: ts,
			SourceIP:  h[1],
			HasSource: true,
		})
		return
	}
	if h := bandwidthPattern.FindStringSubmatch(line); h != nil {
		down, _ := strconv.ParseFloat(h[1], 64)
		up, _ := strconv.ParseFloat(h[2], 64)
		data.BandwidthEvents = append(data.BandwidthEvents, BandwidthEvent{
			Timestamp: ts, DownMbps: down, UpMbps: up,
		})
		return
	}
	if h := txHashAnnouncementPattern.FindStringSubmatch(line); h != nil {
		data.TxHashAnnouncements = append(data.TxHashAnnouncements, TxHashAnnouncement{
			Timestamp: ts, TxHash: strings.ToLower(h[1]),
		})
		return
	}
	if h := txRequestPattern.FindStringSubmatch(line); h != nil {
		port, _ := strconv.Atoi(h[3])
		data.TxRequests = append(data.TxRequests, TxRequest{
			Timestamp: ts, TxHash: strings.ToLower(h[1]), PeerIP: h[2], PeerPort: port,
		})
		return
	}
}

// LogFile pairs a log file path with the node identity it belongs to.
type LogFile struct {
	Path   string
	NodeID string
}

// ParseAll processes files concurrently across a worker pool bounded to
// GOMAXPROCS, exactly as spec.md §4.8 specifies: files are
// embarrassingly parallel and independent, so a plain fan-out/fan-in
// over a bounded number of goroutines is sufficient. A file that fails
// to open or read is skipped (its LogReadError is collected and
// returned alongside the results of every file that succeeded) rather
// than aborting the whole run.
func ParseAll(files []LogFile) (map[string]*NodeLogData, []error) {
	workers := runtime.GOMAXPROCS(0)
	if workers > len(files) {
		workers = len(files)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan LogFile)
	results := make(map[string]*NodeLogData, len(files))
	var errs []error
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for lf := range jobs {
				data, err := parseFile(lf.Path, lf.NodeID)
				mu.Lock()
				if err != nil {
					errs = append(errs, err)
				} else {
					results[lf.NodeID] = data
				}
				mu.Unlock()
			}
		}()
	}
	for _, lf := range files {
		jobs <- lf
	}
	close(jobs)
	wg.Wait()
	return results, errs
}

// DiscoverLogFiles walks hostsDir for per-node daemon log files named
// "<nodeID>/synnergyd.log", matching the teacher's hostsDir convention
// for Shadow-style simulation output trees.
func DiscoverLogFiles(hostsDir string) ([]LogFile, error) {
	entries, err := os.ReadDir(hostsDir)
	if err != nil {
		return nil, &simerrors.LogReadError{Path: hostsDir, Err: err}
	}
	var files []LogFile
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		candidate := filepath.Join(hostsDir, e.Name(), "synnergyd.log")
		if _, statErr := os.Stat(candidate); statErr == nil {
			files = append(files, LogFile{Path: candidate, NodeID: e.Name()})
		}
	}
	return files, nil
}
