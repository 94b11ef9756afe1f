package logparse

import "regexp"

// Every pattern is anchored to the shared timestamp prefix spec.md §4.8
// documents: "YYYY-MM-DD HH:MM:SS.mmm ...". Patterns are compiled once
// at package init and are safe for concurrent use across worker
// goroutines (regexp.Regexp.FindStringSubmatch does not mutate shared
// state).
var (
	timestampPattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3})`)

	txNotificationPattern = regexp.MustCompile(
		`\[(\d+\.\d+\.\d+\.\d+):(\d+)\s+(INC|OUT)\].*Received NOTIFY_NEW_TRANSACTIONS`)

	txHashPattern = regexp.MustCompile(`Including transaction <([0-9a-fA-F]{64})>`)

	connectionOpenPattern = regexp.MustCompile(
		`\[(\d+\.\d+\.\d+\.\d+):(\d+)\s+([0-9a-fA-F-]+)\s+(INC|OUT)\].*NEW CONNECTION`)

	connectionClosePattern = regexp.MustCompile(
		`\[(\d+\.\d+\.\d+\.\d+):(\d+)\s+([0-9a-fA-F-]+)\s+(INC|OUT)\].*CLOSE CONNECTION`)

	connectionDropPattern = regexp.MustCompile(
		`\[(\d+\.\d+\.\d+\.\d+):(\d+)\s+([0-9a-fA-F-]+)\s+(INC|OUT)\].*CONNECTION DROPPED`)

	blockReceivedPattern = regexp.MustCompile(
		`\[(\d+\.\d+\.\d+\.\d+):(\d+)\s+(INC|OUT)\].*Received NOTIFY_NEW_FLUFFY_BLOCK <([0-9a-fA-F]{64})>`)

	blockMinedPattern = regexp.MustCompile(`BLOCK SUCCESSFULLY ADDED`)

	blockHeightPattern = regexp.MustCompile(`HEIGHT (\d+)`)

	bandwidthPattern = regexp.MustCompile(`bandwidth: down=([\d.]+) up=([\d.]+)`)

	txHashAnnouncementPattern = regexp.MustCompile(`Announcing tx hash <([0-9a-fA-F]{64})>`)

	txRequestPattern = regexp.MustCompile(
		`Requesting tx <([0-9a-fA-F]{64})> from (\d+\.\d+\.\d+\.\d+):(\d+)`)
)
