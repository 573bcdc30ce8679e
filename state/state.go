package state

import (
	"errors"
	"fmt"
	"sync"
)

// 状态机接口
type StateMachine interface {
	ChangeState(state State) error
	GetCurrentState() State
	AddTransition(from, to string, condition func() bool) error
	Update()
}

// 状态接口
type State interface {
	OnEnter()
	OnExit()
	OnUpdate()
	GetID() string
}

// ErrTransitionNotAllowed is returned when a state transition is not allowed.
var ErrTransitionNotAllowed = errors.New("state transition not allowed")

// BaseStateMachine runs one State at a time. Once a state has registered
// outgoing transitions, only those targets are reachable from it, and
// only while their condition holds. A state without registered
// transitions may move anywhere.
type BaseStateMachine struct {
	currentState State
	transitions  map[string]map[string]func() bool // fromState -> toState -> condition
	mutex        sync.RWMutex
}

func NewBaseStateMachine(initialState State) *BaseStateMachine {
	machine := &BaseStateMachine{
		currentState: initialState,
		transitions:  make(map[string]map[string]func() bool),
	}
	initialState.OnEnter()
	return machine
}

// ChangeState leaves the current state and enters newState. OnExit and
// OnEnter run with the machine locked, so they must not call back into
// the machine.
func (sm *BaseStateMachine) ChangeState(newState State) error {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	currentID := sm.currentState.GetID()
	newID := newState.GetID()

	if conditions, exists := sm.transitions[currentID]; exists {
		condition, allowed := conditions[newID]
		if !allowed {
			return fmt.Errorf("%s -> %s: %w", currentID, newID, ErrTransitionNotAllowed)
		}
		if condition != nil && !condition() {
			return fmt.Errorf("%s -> %s: condition failed: %w", currentID, newID, ErrTransitionNotAllowed)
		}
	}

	sm.currentState.OnExit()
	sm.currentState = newState
	sm.currentState.OnEnter()

	return nil
}

func (sm *BaseStateMachine) GetCurrentState() State {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	return sm.currentState
}

// Is reports whether the current state has the given ID.
func (sm *BaseStateMachine) Is(id string) bool {
	return sm.GetCurrentState().GetID() == id
}

// AddTransition allows moving from one state ID to another. A nil
// condition always passes.
func (sm *BaseStateMachine) AddTransition(from, to string, condition func() bool) error {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	if from == "" || to == "" {
		return errors.New("transition needs both state IDs")
	}

	if _, exists := sm.transitions[from]; !exists {
		sm.transitions[from] = make(map[string]func() bool)
	}

	sm.transitions[from][to] = condition
	return nil
}

// Update drives the current state once. The state may change the machine
// from inside OnUpdate.
func (sm *BaseStateMachine) Update() {
	if current := sm.GetCurrentState(); current != nil {
		current.OnUpdate()
	}
}

// 状态基础结构
type Base struct {
	ID string
}

func (s *Base) GetID() string {
	return s.ID
}

func (s *Base) OnEnter() {
	// 默认实现
}

func (s *Base) OnExit() {
	// 默认实现
}

func (s *Base) OnUpdate() {
	// 默认实现
}
