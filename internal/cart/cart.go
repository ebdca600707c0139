// Package cart holds the in-memory staging area of selected items for
// one table prior to order submission.
package cart

// Line is one selected item. At most one line exists per distinct item
// id; adding the same id again increments its quantity.
type Line struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Pack     bool   `json:"pack"`
}

// Cart is the mutable per-session item list plus the sticky
// pack-whole-order preference. It performs no I/O and no locking;
// callers serialize access.
type Cart struct {
	lines   []Line
	packAll bool
}

func New() *Cart {
	return &Cart{}
}

// AddItem adds one unit of an item. An existing line has its quantity
// incremented in place; a new line starts at quantity 1 with the
// current pack-all preference applied. It never fails, even for ids
// absent from the catalog.
func (c *Cart) AddItem(id, name string) {
	for i := range c.lines {
		if c.lines[i].ID == id {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, Line{
		ID:       id,
		Name:     name,
		Quantity: 1,
		Pack:     c.packAll,
	})
}

// SetQuantity replaces a line's quantity, preserving its position and
// pack flag. A quantity of zero or less removes the line. Absent ids
// are a no-op.
func (c *Cart) SetQuantity(id string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(id)
		return
	}
	for i := range c.lines {
		if c.lines[i].ID == id {
			c.lines[i].Quantity = quantity
			return
		}
	}
}

// RemoveItem deletes the line with the matching id, if present.
func (c *Cart) RemoveItem(id string) {
	for i := range c.lines {
		if c.lines[i].ID == id {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// TogglePack flips the pack flag on the matching line, if present.
func (c *Cart) TogglePack(id string) {
	for i := range c.lines {
		if c.lines[i].ID == id {
			c.lines[i].Pack = !c.lines[i].Pack
			return
		}
	}
}

// SetPackAll sets the pack flag on every current line and records the
// flag as the default for lines added afterwards.
func (c *Cart) SetPackAll(flag bool) {
	c.packAll = flag
	for i := range c.lines {
		c.lines[i].Pack = flag
	}
}

// PackAll reports the sticky pack-whole-order preference.
func (c *Cart) PackAll() bool {
	return c.packAll
}

// Lines returns a value snapshot of the current lines.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Total sums priceOf(line id) times quantity over all lines. Unknown
// ids contribute 0.
func (c *Cart) Total(priceOf func(id string) int) int {
	total := 0
	for _, line := range c.lines {
		total += priceOf(line.ID) * line.Quantity
	}
	return total
}

// Clear empties the cart and resets the pack-all preference. Called
// only after a successfully acknowledged submission.
func (c *Cart) Clear() {
	c.lines = nil
	c.packAll = false
}
