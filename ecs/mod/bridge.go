// Package mod lets external Lua scripts extend an Engine with component
// factories and system update stubs, without the core ecs package ever
// importing Lua itself.
package mod

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	lua "github.com/yuin/gopher-lua"

	"ecscore/ecs"
)

// Sandbox controls which Lua standard-library globals a script VM can see.
// DefaultVMConfig turns all three restrictions on; a script bridge with every
// restriction disabled is still subject to the wall-clock limit below.
// debug, package and require are removed whatever the flags say.
// NetworkRestricted is not read by applySandbox and removes no global.
type Sandbox struct {
	FileSystemRestricted bool
	NetworkRestricted    bool
	OSCommandsBlocked    bool
}

// ResourceLimits bounds a single script invocation.
type ResourceLimits struct {
	MaxExecutionTime time.Duration
}

// VMConfig configures the Lua states a ScriptBridge creates.
type VMConfig struct {
	Sandbox *Sandbox
	Limits  *ResourceLimits
}

// DefaultVMConfig returns a fully sandboxed configuration with a 100ms
// wall-clock ceiling per invocation.
func DefaultVMConfig() *VMConfig {
	return &VMConfig{
		Sandbox: &Sandbox{FileSystemRestricted: true, NetworkRestricted: true, OSCommandsBlocked: true},
		Limits:  &ResourceLimits{MaxExecutionTime: 100 * time.Millisecond},
	}
}

// ScriptBridge wires Lua-authored content into an Engine. It holds a
// reference to the engine it extends; the engine has no field referring to
// the bridge, but each factory installed by RegisterComponentFactory is a
// closure over the bridge and stays registered on the engine.
type ScriptBridge struct {
	engine *ecs.Engine
	config *VMConfig
}

// NewScriptBridge creates a bridge for engine. A nil config uses
// DefaultVMConfig.
func NewScriptBridge(engine *ecs.Engine, config *VMConfig) *ScriptBridge {
	if config == nil {
		config = DefaultVMConfig()
	}
	return &ScriptBridge{engine: engine, config: config}
}

func (b *ScriptBridge) newState() *lua.LState {
	state := lua.NewState()
	if b.config.Sandbox != nil {
		applySandbox(state, b.config.Sandbox)
	}
	return state
}

func applySandbox(state *lua.LState, sandbox *Sandbox) {
	if sandbox.FileSystemRestricted {
		state.SetGlobal("io", lua.LNil)
		state.SetGlobal("dofile", lua.LNil)
		state.SetGlobal("loadfile", lua.LNil)
	}
	if sandbox.OSCommandsBlocked {
		state.SetGlobal("os", lua.LNil)
	}
	state.SetGlobal("debug", lua.LNil)
	state.SetGlobal("package", lua.LNil)
	state.SetGlobal("require", lua.LNil)
}

func (b *ScriptBridge) limit() time.Duration {
	if b.config.Limits == nil || b.config.Limits.MaxExecutionTime <= 0 {
		return 100 * time.Millisecond
	}
	return b.config.Limits.MaxExecutionTime
}

// run executes source as a Lua chunk and returns whatever value it left on
// top of the stack (typically the result of a trailing `return`).
func (b *ScriptBridge) run(source string) (lua.LValue, error) {
	state := b.newState()
	defer state.Close()

	ctx, cancel := context.WithTimeout(context.Background(), b.limit())
	defer cancel()
	state.SetContext(ctx)

	if err := state.DoString(source); err != nil {
		return nil, fmt.Errorf("script execution failed: %w", err)
	}
	ret := state.Get(-1)
	state.Pop(1)
	return ret, nil
}

// RegisterComponentFactory installs an ecs.ComponentFactory on the bridge's
// engine that evaluates source and converts its returned table onto a
// fresh value of sample's concrete type. The factory declines (ok=false)
// on any script or conversion failure, per the engine's nullable-result
// convention for component creation.
func (b *ScriptBridge) RegisterComponentFactory(sample any, source string) {
	b.engine.RegisterComponentFactory(sample, func() (any, bool) {
		result, err := b.run(source)
		if err != nil {
			return nil, false
		}
		table, ok := result.(*lua.LTable)
		if !ok {
			return nil, false
		}
		out := reflect.New(reflect.TypeOf(sample))
		if err := tableToStruct(table, out.Interface()); err != nil {
			return nil, false
		}
		return out.Elem().Interface(), true
	})
}

// ScriptSystem adapts a Lua script exposing a global update(dt) function
// into an ecs.System. Each Update call runs under the bridge's wall-clock
// limit; a script that runs long is interrupted rather than stalling the
// tick loop.
type ScriptSystem struct {
	bridge *ScriptBridge
	state  *lua.LState
	fn     *lua.LFunction
}

// NewScriptSystem loads source once and binds its global update(dt)
// function. The returned ScriptSystem holds its own Lua state for the rest
// of its life; call Close when it is removed from the engine.
func (b *ScriptBridge) NewScriptSystem(source string) (*ScriptSystem, error) {
	state := b.newState()
	if err := state.DoString(source); err != nil {
		state.Close()
		return nil, fmt.Errorf("system script load failed: %w", err)
	}
	fn, ok := state.GetGlobal("update").(*lua.LFunction)
	if !ok {
		state.Close()
		return nil, errors.New("script does not define an update(dt) function")
	}
	return &ScriptSystem{bridge: b, state: state, fn: fn}, nil
}

// CheckProcessing always reports true; scripts opt out by making update a
// no-op rather than by being skipped at the Go level.
func (s *ScriptSystem) CheckProcessing() bool { return true }

// Update invokes the script's update(dt) function under the bridge's
// wall-clock limit, swallowing any runtime error the script raises.
func (s *ScriptSystem) Update(deltaTime float64) {
	ctx, cancel := context.WithTimeout(context.Background(), s.bridge.limit())
	defer cancel()
	s.state.SetContext(ctx)

	_ = s.state.CallByParam(lua.P{Fn: s.fn, NRet: 0, Protect: true}, lua.LNumber(deltaTime))
}

// Close releases the script's Lua state.
func (s *ScriptSystem) Close() { s.state.Close() }

func tableToStruct(table *lua.LTable, target any) error {
	v := reflect.ValueOf(target).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}
		lv := table.RawGetString(t.Field(i).Name)
		if lv == lua.LNil {
			continue
		}
		if err := setField(field, lv); err != nil {
			return fmt.Errorf("field %s: %w", t.Field(i).Name, err)
		}
	}
	return nil
}

func setField(field reflect.Value, lv lua.LValue) error {
	switch field.Kind() {
	case reflect.Float64, reflect.Float32:
		num, ok := lv.(lua.LNumber)
		if !ok {
			return fmt.Errorf("expected number, got %s", lv.Type())
		}
		field.SetFloat(float64(num))
	case reflect.Int, reflect.Int32, reflect.Int64:
		num, ok := lv.(lua.LNumber)
		if !ok {
			return fmt.Errorf("expected number, got %s", lv.Type())
		}
		field.SetInt(int64(num))
	case reflect.String:
		str, ok := lv.(lua.LString)
		if !ok {
			return fmt.Errorf("expected string, got %s", lv.Type())
		}
		field.SetString(string(str))
	case reflect.Bool:
		boolean, ok := lv.(lua.LBool)
		if !ok {
			return fmt.Errorf("expected bool, got %s", lv.Type())
		}
		field.SetBool(bool(boolean))
	default:
		return fmt.Errorf("unsupported field kind %s", field.Kind())
	}
	return nil
}
