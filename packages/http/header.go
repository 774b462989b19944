package http

import "strings"

type headerField struct {
	name   string
	values []string
}

// Header is an ordered, multi-valued header set. Names keep the case they
// were first added with; lookups ignore case.
type Header struct {
	fields []headerField
}

func NewHeader() *Header {
	return &Header{}
}

// Add appends value to the values of name.
func (h *Header) Add(name, value string) *Header {
	if i := h.index(name); i >= 0 {
		h.fields[i].values = append(h.fields[i].values, value)
		return h
	}
	h.fields = append(h.fields, headerField{name: name, values: []string{value}})
	return h
}

// Set replaces every value of name.
func (h *Header) Set(name, value string) *Header {
	if i := h.index(name); i >= 0 {
		h.fields[i].values = []string{value}
		return h
	}
	return h.Add(name, value)
}

func (h *Header) Del(name string) {
	if i := h.index(name); i >= 0 {
		h.fields = append(h.fields[:i], h.fields[i+1:]...)
	}
}

// Get returns the first value of name or "".
func (h *Header) Get(name string) string {
	if i := h.index(name); i >= 0 {
		return h.fields[i].values[0]
	}
	return ""
}

// Values returns a copy of the values of name in insertion order.
func (h *Header) Values(name string) []string {
	i := h.index(name)
	if i < 0 {
		return nil
	}
	out := make([]string, len(h.fields[i].values))
	copy(out, h.fields[i].values)
	return out
}

// Names returns the header names in the order they were first added.
func (h *Header) Names() []string {
	names := make([]string, len(h.fields))
	for i, f := range h.fields {
		names[i] = f.name
	}
	return names
}

func (h *Header) Len() int {
	return len(h.fields)
}

func (h *Header) Clone() *Header {
	c := &Header{fields: make([]headerField, len(h.fields))}
	for i, f := range h.fields {
		c.fields[i] = headerField{name: f.name, values: append([]string(nil), f.values...)}
	}
	return c
}

func (h *Header) index(name string) int {
	for i, f := range h.fields {
		if strings.EqualFold(f.name, name) {
			return i
		}
	}
	return -1
}
