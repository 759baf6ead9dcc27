package via

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ryanhamamura/viatour/via/h"
)

// ActionTrigger represents a trigger to an event handler fn
type ActionTrigger struct {
	id string
}

// ID returns the action id used in the /_action/{id} endpoint.
func (a *ActionTrigger) ID() string {
	return a.id
}

// ActionTriggerOption configures behavior of action triggers
type ActionTriggerOption interface {
	apply(*triggerOpts)
}

type triggerOpts struct {
	signals        []signalAssign
	preventDefault bool
}

type signalAssign struct {
	signalID string
	value    string
}

type withPreventDefaultOpt struct{}

func (o withPreventDefaultOpt) apply(opts *triggerOpts) { opts.preventDefault = true }

// WithPreventDefault calls evt.preventDefault() before triggering the action,
// e.g. to keep a link or form from navigating.
func WithPreventDefault() ActionTriggerOption { return withPreventDefaultOpt{} }

type withSignalOpt signalAssign

func (o withSignalOpt) apply(opts *triggerOpts) {
	opts.signals = append(opts.signals, signalAssign(o))
}

// WithSignal sets a signal value before triggering the action.
func WithSignal(sig *Signal, value string) ActionTriggerOption {
	return withSignalOpt{
		signalID: sig.ID(),
		value:    fmt.Sprintf("'%s'", strings.ReplaceAll(value, "'", `\'`)),
	}
}

// WithSignalInt sets a signal to an int value before triggering the action.
func WithSignalInt(sig *Signal, value int) ActionTriggerOption {
	return withSignalOpt{
		signalID: sig.ID(),
		value:    strconv.Itoa(value),
	}
}

func buildOnExpr(base string, opts *triggerOpts) string {
	var b strings.Builder
	if opts.preventDefault {
		b.WriteString("evt.preventDefault();")
	}
	for _, s := range opts.signals {
		fmt.Fprintf(&b, "$%s=%s;", s.signalID, s.value)
	}
	b.WriteString(base)
	return b.String()
}

func applyOptions(options ...ActionTriggerOption) triggerOpts {
	var opts triggerOpts
	for _, opt := range options {
		opt.apply(&opts)
	}
	return opts
}

func actionURL(id string) string {
	return fmt.Sprintf("@get('/_action/%s')", id)
}

// OnClick returns a via.h DOM attribute that triggers on click. It can be added
// to element nodes in a view.
func (a *ActionTrigger) OnClick(options ...ActionTriggerOption) h.H {
	opts := applyOptions(options...)
	return h.Data("on:click", buildOnExpr(actionURL(a.id), &opts))
}

// OnChange returns a via.h DOM attribute that triggers on input change. It can be added
// to element nodes in a view.
func (a *ActionTrigger) OnChange(options ...ActionTriggerOption) h.H {
	opts := applyOptions(options...)
	return h.Data("on:change__debounce.200ms", buildOnExpr(actionURL(a.id), &opts))
}

// OnInput returns a via.h DOM attribute that triggers while the user types.
func (a *ActionTrigger) OnInput(options ...ActionTriggerOption) h.H {
	opts := applyOptions(options...)
	return h.Data("on:input__debounce.200ms", buildOnExpr(actionURL(a.id), &opts))
}

// OnSubmit returns a via.h DOM attribute for forms. The browser submission is
// always prevented; the action runs instead.
func (a *ActionTrigger) OnSubmit(options ...ActionTriggerOption) h.H {
	opts := applyOptions(options...)
	opts.preventDefault = true
	return h.Data("on:submit", buildOnExpr(actionURL(a.id), &opts))
}

// KeyBinding pairs a key name with an action and its trigger options.
type KeyBinding struct {
	Key     string
	Action  *ActionTrigger
	Options []ActionTriggerOption
}

// KeyBind creates a KeyBinding for use with OnKeyDownMap.
func KeyBind(key string, action *ActionTrigger, options ...ActionTriggerOption) KeyBinding {
	return KeyBinding{Key: key, Action: action, Options: options}
}

// OnKeyDownMap returns a single window-scoped keydown attribute dispatching
// each bound key to its action. Keys without a binding are ignored.
func OnKeyDownMap(bindings ...KeyBinding) h.H {
	if len(bindings) == 0 {
		return nil
	}
	var parts []string
	for _, b := range bindings {
		opts := applyOptions(b.Options...)
		expr := buildOnExpr(actionURL(b.Action.id), &opts)
		parts = append(parts, fmt.Sprintf("evt.key==='%s' ? (%s)", b.Key, expr))
	}
	combined := strings.Join(parts, " : ") + " : void 0"
	return h.Data("on:keydown__window", combined)
}
