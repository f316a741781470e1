package redstone

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/redstonemc/redstone/internal/marshal"
)

// Argument types understood by the engine's command dispatcher.
// Anything else falls back to a plain string argument.
const (
	ArgString       = "string"
	ArgGreedyString = "greedyString"
	ArgInteger      = "integer"
	ArgDouble       = "double_"
	ArgBool         = "bool_"
	ArgPlayer       = "player"
	ArgPosition     = "position"
	ArgBlock        = "block"
	ArgItem         = "item"
)

// CommandArg defines one command argument.
type CommandArg struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// CommandCallback handles a command invocation. A non-nil error marks
// the execution failed.
type CommandCallback func(inv *CommandInvocation) error

// CommandInfo defines a slash command.
type CommandInfo struct {
	Name        string       // command name, without the leading slash
	Description string       // help text
	Args        []CommandArg // argument chain, in order
	Permission  int32        // required permission level, 0-4
	Callback    CommandCallback
}

// CommandInvocation is one execution of a registered command. Parsed
// argument values arrive as strings keyed by argument name; optional
// arguments the player omitted are absent.
type CommandInvocation struct {
	PlayerID int32
	args     map[string]string
}

// Arg returns an argument by name, or empty string if not provided.
func (inv *CommandInvocation) Arg(name string) string {
	return inv.args[name]
}

// HasArg reports whether the player provided an argument.
func (inv *CommandInvocation) HasArg(name string) bool {
	_, ok := inv.args[name]
	return ok
}

// ArgInt returns an argument as an integer.
func (inv *CommandInvocation) ArgInt(name string, defaultVal int) int {
	v, err := strconv.Atoi(inv.args[name])
	if err != nil {
		return defaultVal
	}
	return v
}

// ArgFloat returns an argument as a float.
func (inv *CommandInvocation) ArgFloat(name string, defaultVal float64) float64 {
	v, err := strconv.ParseFloat(inv.args[name], 64)
	if err != nil {
		return defaultVal
	}
	return v
}

// ArgBool returns an argument as a boolean.
func (inv *CommandInvocation) ArgBool(name string, defaultVal bool) bool {
	switch strings.ToLower(inv.args[name]) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return defaultVal
	}
}

// RegisterCommand registers a slash command. Must be called during
// Load; the engine picks the definition up when registrations drain.
func (c *Context) RegisterCommand(info CommandInfo) error {
	if info.Callback == nil {
		return fmt.Errorf("command %q has no callback", info.Name)
	}
	argsJSON := "[]"
	if len(info.Args) > 0 {
		raw, err := json.Marshal(info.Args)
		if err != nil {
			return fmt.Errorf("command %q args: %w", info.Name, err)
		}
		argsJSON = string(raw)
	}

	cb := info.Callback
	log := c.env.Log
	id := c.env.Bridge.RegisterCommand(info.Name, info.Description, argsJSON, info.Permission,
		func(args []marshal.Value) (marshal.Value, error) {
			inv := &CommandInvocation{PlayerID: args[1].AsInt32()}
			if raw := args[2].AsString(); raw != "" {
				if err := json.Unmarshal([]byte(raw), &inv.args); err != nil {
					return marshal.Int32(0), fmt.Errorf("parse args for /%s: %w", info.Name, err)
				}
			}
			if err := cb(inv); err != nil {
				log.Warn("command failed", zap.String("command", info.Name), zap.Error(err))
				return marshal.Int32(0), nil
			}
			return marshal.Int32(1), nil
		})
	if id == 0 {
		return fmt.Errorf("command %q rejected", info.Name)
	}
	return nil
}
