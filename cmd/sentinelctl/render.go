package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/goodnatureofminers/sentinelmesh/internal/api"
)

func renderStatus(s api.StatusResponse) error {
	scanner := pterm.LightGreen(s.Scanner)
	if s.Scanner != api.ScannerReady {
		scanner = pterm.LightRed(s.Scanner)
	}
	pterm.DefaultSection.Printfln("Node %s", s.ID)
	err := pterm.DefaultTable.WithData(pterm.TableData{
		{"Status", s.Status},
		{"Reputation", strconv.Itoa(s.Reputation)},
		{"Chain length", strconv.Itoa(s.ChainLength)},
		{"Pending alerts", strconv.Itoa(s.PendingAlerts)},
		{"Scanner", scanner},
		{"Peers", strconv.Itoa(s.PeerCount)},
	}).Render()
	if err != nil {
		return err
	}
	for _, p := range s.Peers {
		pterm.Println("  " + p)
	}
	return nil
}

func renderChain(c api.ChainResponse) error {
	data := pterm.TableData{{"#", "Sealed", "Sender", "Alerts", "Hash"}}
	for _, b := range c.Chain {
		data = append(data, []string{
			strconv.Itoa(b.Index),
			formatTimestamp(b.Timestamp),
			b.Sender,
			strconv.Itoa(len(b.Alerts)),
			shortHash(b.Hash),
		})
	}
	pterm.DefaultSection.Printfln("Chain (%d blocks)", c.Length)
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func renderContracts(c api.ContractsResponse) error {
	data := pterm.TableData{{"ID", "Name", "Alert type", "Min conf.", "Action", "Cooldown", "Runs"}}
	for _, info := range c.Contracts {
		data = append(data, []string{
			info.ID,
			info.Name,
			info.AlertType,
			strconv.FormatFloat(info.MinConfidence, 'f', 2, 64),
			string(info.Action),
			(time.Duration(info.CooldownSeconds * float64(time.Second))).String(),
			strconv.Itoa(info.Executions),
		})
	}
	pterm.DefaultSection.Println("Contracts")
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}

	st := c.Status
	pterm.DefaultSection.Println("Enforcement")
	err := pterm.DefaultTable.WithData(pterm.TableData{
		{"Active contracts", strconv.Itoa(st.ActiveContracts)},
		{"Total executions", strconv.Itoa(st.TotalExecutions)},
		{"Blocked", joinOrDash(st.BlockedSources)},
		{"Rate limited", joinOrDash(st.RateLimitedSources)},
		{"Quarantined", joinOrDash(st.QuarantinedSources)},
		{"Node isolated", strconv.FormatBool(st.NodeIsolated)},
	}).Render()
	if err != nil {
		return err
	}
	if len(st.RecentExecutions) == 0 {
		return nil
	}

	recent := pterm.TableData{{"When", "Contract", "Action", "Source", "Confidence"}}
	for _, e := range st.RecentExecutions {
		recent = append(recent, []string{
			formatTimestamp(e.Timestamp),
			e.ContractID,
			string(e.Action),
			e.Source,
			strconv.FormatFloat(e.Confidence, 'f', 4, 64),
		})
	}
	pterm.DefaultSection.Println("Recent executions")
	return pterm.DefaultTable.WithHasHeader().WithData(recent).Render()
}

func renderActions(triggered int, actions []string) {
	if triggered == 0 {
		pterm.Info.Println("No contracts triggered")
		return
	}
	pterm.Warning.Printfln("%d contracts triggered: %s", triggered, strings.Join(actions, ", "))
}

func formatTimestamp(ts float64) string {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec).UTC().Format(time.DateTime)
}

func shortHash(h string) string {
	if len(h) <= 16 {
		return h
	}
	return fmt.Sprintf("%s…%s", h[:8], h[len(h)-8:])
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
