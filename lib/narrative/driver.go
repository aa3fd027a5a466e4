package narrative

// Driver tracks which step of the narrative is active and tells the listener when that changes.
type Driver struct {
	steps    []*Step
	active   int
	listener func(step *Step)
}

func NewDriver(steps []*Step, listener func(step *Step)) *Driver {
	return &Driver{
		steps:    steps,
		active:   -1,
		listener: listener,
	}
}

func (d *Driver) Steps() []*Step {
	return d.steps
}

// Active returns the active step, or nil before any step was entered.
func (d *Driver) Active() *Step {
	if d.active < 0 {
		return nil
	}
	return d.steps[d.active]
}

// Enter activates step i. It returns false if i is out of range. The listener is called only when the
// active step changes.
func (d *Driver) Enter(i int) bool {
	if i < 0 || i >= len(d.steps) {
		return false
	}

	if i == d.active {
		return true
	}

	d.active = i

	if d.listener != nil {
		d.listener(d.steps[i])
	}

	return true
}

func (d *Driver) Reset() {
	d.active = -1
}
