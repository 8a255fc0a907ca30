package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pterm/pterm"

	"github.com/goodnatureofminers/sentinelmesh/internal/api"
	"github.com/goodnatureofminers/sentinelmesh/internal/peer"
)

// describe turns a node error body into a readable error.
func describe(err error) error {
	var statusErr *peer.StatusError
	if !errors.As(err, &statusErr) {
		return err
	}
	var body api.ErrorResponse
	if json.Unmarshal([]byte(statusErr.Body), &body) != nil || body.Error == "" {
		return err
	}
	if body.Message == "" {
		return fmt.Errorf("%s (HTTP %d)", body.Error, statusErr.Code)
	}
	return fmt.Errorf("%s: %s (HTTP %d)", body.Error, body.Message, statusErr.Code)
}

type statusCommand struct {
	app *app
}

func (c *statusCommand) Execute(_ []string) error {
	var resp api.StatusResponse
	if err := c.app.get(api.PathStatus, &resp); err != nil {
		return err
	}
	return renderStatus(resp)
}

type chainCommand struct {
	app  *app
	JSON bool `long:"json" description:"print the raw chain as JSON"`
}

func (c *chainCommand) Execute(_ []string) error {
	var resp api.ChainResponse
	if err := c.app.get(api.PathChain, &resp); err != nil {
		return err
	}
	if c.JSON {
		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return err
		}
		pterm.Println(string(out))
		return nil
	}
	return renderChain(resp)
}

type registerCommand struct {
	app  *app
	Args struct {
		Peers []string `positional-arg-name:"peer" required:"1"`
	} `positional-args:"yes" required:"yes"`
}

func (c *registerCommand) Execute(_ []string) error {
	var resp api.RegisterResponse
	if err := c.app.post(api.PathRegister, api.RegisterRequest{Nodes: c.Args.Peers}, &resp); err != nil {
		return err
	}
	pterm.Success.Printfln("Node knows %d peers", len(resp.TotalPeers))
	for _, p := range resp.TotalPeers {
		pterm.Println("  " + p)
	}
	return nil
}

type resolveCommand struct {
	app *app
}

func (c *resolveCommand) Execute(_ []string) error {
	var resp api.ResolveResponse
	if err := c.app.get(api.PathResolve, &resp); err != nil {
		return err
	}
	if resp.Message == api.MessageSynchronized {
		pterm.Success.Printfln("%s, new length %d", resp.Message, resp.NewLength)
		return nil
	}
	pterm.Info.Printfln("%s, length %d", resp.Message, resp.Length)
	return nil
}

type mineCommand struct {
	app *app
}

func (c *mineCommand) Execute(_ []string) error {
	var resp api.MineResponse
	if err := c.app.get(api.PathMine, &resp); err != nil {
		return err
	}
	if resp.Block == nil {
		pterm.Info.Printfln("%s (reputation %d)", resp.Message, resp.NewReputation)
		return nil
	}
	pterm.Success.Printfln("%s: block #%d with %d alerts, reputation now %d",
		resp.Message, resp.Block.Index, len(resp.Block.Alerts), resp.NewReputation)
	pterm.Println("  hash " + resp.Block.Hash)
	return nil
}

type alertCommand struct {
	app        *app
	Sender     string  `long:"sender" required:"yes" description:"reporting node id"`
	Type       string  `long:"type" default:"MANUAL" description:"alert type"`
	Confidence float64 `long:"confidence" required:"yes" description:"confidence in [0,1]"`
	Source     string  `long:"source" description:"offending source address"`
}

func (c *alertCommand) Execute(_ []string) error {
	req := api.AlertRequest{
		Sender:     &c.Sender,
		Type:       &c.Type,
		Confidence: &c.Confidence,
		Source:     c.Source,
	}
	var resp api.AlertResponse
	if err := c.app.post(api.PathAlert, req, &resp); err != nil {
		return err
	}
	pterm.Success.Println(resp.Message)
	renderActions(resp.ContractsTriggered, resp.Actions)
	return nil
}

type scanCommand struct {
	app *app
}

func (c *scanCommand) Execute(_ []string) error {
	var resp api.ScanResponse
	if err := c.app.get(api.PathScan, &resp); err != nil {
		return err
	}
	if resp.Result != api.MessageAnomaly {
		pterm.Info.Printfln("%s (loss %.6f)", resp.Result, resp.Loss)
		return nil
	}
	pterm.Warning.Printfln("%s loss %.6f from %s, pooled for block %d", resp.Result, resp.Loss, resp.Source, resp.Index)
	renderActions(resp.ContractsTriggered, resp.Actions)
	return nil
}

type contractsCommand struct {
	app *app
}

func (c *contractsCommand) Execute(_ []string) error {
	var resp api.ContractsResponse
	if err := c.app.get(api.PathContracts, &resp); err != nil {
		return err
	}
	return renderContracts(resp)
}

type boostCommand struct {
	app *app
}

func (c *boostCommand) Execute(_ []string) error {
	var resp api.BoostResponse
	if err := c.app.post(api.PathBoost, nil, &resp); err != nil {
		return err
	}
	pterm.Success.Printfln("%s, reputation now %d", resp.Message, resp.NewScore)
	return nil
}
