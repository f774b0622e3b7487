package calculator

import "go.uber.org/zap"

// Observer is notified after every recognized input with the state before
// and after the transition.
type Observer func(prev, next State, in Input)

// Calculator holds the single live State and replaces it on every Dispatch.
// It is not safe for concurrent use.
type Calculator struct {
	state     State
	observers []Observer
	logger    *zap.Logger
}

// New returns a Calculator in the fresh state. A nil logger disables logging.
func New(logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{
		state:  Fresh(),
		logger: logger,
	}
}

// CurrentState returns the live snapshot.
func (c *Calculator) CurrentState() State {
	return c.state
}

// Observe registers fn to run after each transition.
func (c *Calculator) Observe(fn Observer) {
	c.observers = append(c.observers, fn)
}

// Dispatch classifies label and reduces the live state with it. It reports
// false, leaving the state untouched, when the label is not a key.
func (c *Calculator) Dispatch(label string) bool {
	in, ok := Classify(label)
	if !ok {
		c.logger.Debug("ignoring key", zap.String("label", label))
		return false
	}

	c.Apply(in)
	return true
}

// Apply reduces the live state with an already classified input.
func (c *Calculator) Apply(in Input) State {
	prev := c.state
	c.state = Reduce(prev, in)

	c.logger.Debug("key applied",
		zap.Stringer("input", in),
		zap.String("current_operand", c.state.CurrentOperand),
		zap.String("first_operand", c.state.FirstOperand),
		zap.String("pending_operator", string(c.state.PendingOperator)),
	)

	for _, fn := range c.observers {
		fn(prev, c.state, in)
	}
	return c.state
}

// Reset returns the calculator to the fresh state.
func (c *Calculator) Reset() {
	c.Apply(Input{Kind: KindClear})
}

// Run dispatches every label in order and returns the resulting state along
// with the labels that were ignored.
func (c *Calculator) Run(labels ...string) (State, []string) {
	var ignored []string
	for _, label := range labels {
		if !c.Dispatch(label) {
			ignored = append(ignored, label)
		}
	}
	return c.state, ignored
}
