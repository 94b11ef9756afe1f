package analysis

import (
	"encoding/json"
	"os"

	"synnergy-network/internal/logparse"
)

// TransactionRecord is one entry of the simulation's transactions.json
// ground-truth log: who actually sent each transaction, and when.
type TransactionRecord struct {
	TxHash      string  `json:"tx_hash"`
	SenderID    string  `json:"sender_id"`
	RecipientID string  `json:"recipient_id"`
	Amount      float64 `json:"amount"`
	Timestamp   float64 `json:"timestamp"`
}

// BlockRecord is one entry of blocks_with_transactions.json.
type BlockRecord struct {
	Height       uint64   `json:"height"`
	Transactions []string `json:"transactions"`
}

// AgentRecord is one entry of agent_registry.json, trimmed to the
// fields the analyzers need to resolve IDs to addresses.
type AgentRecord struct {
	ID     string `json:"id"`
	IPAddr string `json:"ip_addr"`
}

// LoadTransactions reads the ground-truth transaction log.
func LoadTransactions(path string) ([]TransactionRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var wire struct {
		Transactions []TransactionRecord `json:"transactions"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	return wire.Transactions, nil
}

// LoadBlocks reads the block-to-transaction-hash mapping.
func LoadBlocks(path string) ([]BlockRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var wire struct {
		Blocks []BlockRecord `json:"blocks"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	return wire.Blocks, nil
}

// LoadAgentRegistry reads agent_registry.json and returns both
// directions of the id<->IP mapping.
func LoadAgentRegistry(path string) (idToIP map[string]string, ipToID map[string]string, err error) {
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return nil, nil, readErr
	}
	var wire struct {
		Agents []AgentRecord `json:"agents"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, nil, err
	}
	idToIP = make(map[string]string, len(wire.Agents))
	ipToID = make(map[string]string, len(wire.Agents))
	for _, a := range wire.Agents {
		idToIP[a.ID] = a.IPAddr
		ipToID[a.IPAddr] = a.ID
	}
	return idToIP, ipToID, nil
}

// GroundTruthSenderIPs derives the tx-hash -> sender-IP oracle the
// SpyAnalyzer and DandelionAnalyzer need from the transaction log and
// the agent registry's id->IP mapping.
func GroundTruthSenderIPs(txs []TransactionRecord, idToIP map[string]string) map[string]string {
	out := make(map[string]string, len(txs))
	for _, tx := range txs {
		if ip, ok := idToIP[tx.SenderID]; ok {
			out[tx.TxHash] = ip
		}
	}
	return out
}

// TxHeightIndex derives the tx-hash -> block-height mapping from the
// block log, for PropagationAnalyzer's confirmation-delay computation.
func TxHeightIndex(blocks []BlockRecord) map[string]uint64 {
	out := map[string]uint64{}
	for _, b := range blocks {
		for _, tx := range b.Transactions {
			out[tx] = b.Height
		}
	}
	return out
}

// BlockTimeByHeight derives block_time(height) = the earliest
// observation timestamp recorded for that height across all nodes,
// per spec.md §4.9.
func BlockTimeByHeight(nodeData map[string]*logparse.NodeLogData) map[uint64]float64 {
	out := map[uint64]float64{}
	for _, nd := range nodeData {
		for _, b := range nd.BlockObservations {
			if b.Height == 0 {
				continue
			}
			if existing, ok := out[b.Height]; !ok || b.Timestamp < existing {
				out[b.Height] = b.Timestamp
			}
		}
	}
	return out
}
