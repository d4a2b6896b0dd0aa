package tensor

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"slices"
)

// DType is the element type name used in encodings.
const DType = "float32"

// Tensor is a dense row-major float32 array.
type Tensor struct {
	Shape []int
	Data  []float32
}

// New returns a zero tensor of the given shape.
func New(shape ...int) Tensor {
	return Tensor{Shape: slices.Clone(shape), Data: make([]float32, numel(shape))}
}

func numel(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// Rank returns the number of dimensions.
func (t Tensor) Rank() int { return len(t.Shape) }

// Len returns the number of elements.
func (t Tensor) Len() int { return len(t.Data) }

// At returns the element at the given index, one coordinate per dimension.
func (t Tensor) At(idx ...int) float32 {
	if len(idx) != len(t.Shape) {
		panic(fmt.Sprintf("tensor: index rank %d for shape %v", len(idx), t.Shape))
	}
	off := 0
	for i, v := range idx {
		off = off*t.Shape[i] + v
	}
	return t.Data[off]
}

// Squeeze drops dimension axis, which must have size 1.
func (t Tensor) Squeeze(axis int) (Tensor, error) {
	if axis < 0 || axis >= len(t.Shape) {
		return Tensor{}, fmt.Errorf("tensor: squeeze axis %d out of range for shape %v", axis, t.Shape)
	}
	if t.Shape[axis] != 1 {
		return Tensor{}, fmt.Errorf("tensor: cannot squeeze axis %d of size %d", axis, t.Shape[axis])
	}
	return Tensor{Shape: slices.Delete(slices.Clone(t.Shape), axis, axis+1), Data: t.Data}, nil
}

// Unsqueeze inserts a dimension of size 1 at axis.
func (t Tensor) Unsqueeze(axis int) Tensor {
	return Tensor{Shape: slices.Insert(slices.Clone(t.Shape), axis, 1), Data: t.Data}
}

// Channel extracts channel c of a [H, W, C] tensor as [H, W].
func (t Tensor) Channel(c int) (Tensor, error) {
	if len(t.Shape) != 3 {
		return Tensor{}, fmt.Errorf("tensor: channel of rank %d tensor", len(t.Shape))
	}
	h, w, ch := t.Shape[0], t.Shape[1], t.Shape[2]
	if c < 0 || c >= ch {
		return Tensor{}, fmt.Errorf("tensor: channel %d out of range [0,%d)", c, ch)
	}
	out := New(h, w)
	for i := range h * w {
		out.Data[i] = t.Data[i*ch+c]
	}
	return out, nil
}

// MaskTo2D reduces a split alpha channel to exactly [H, W]. A rank-3 input
// loses a trailing singleton axis if it has one, otherwise a leading one,
// otherwise all but its first channel.
func MaskTo2D(t Tensor) (Tensor, error) {
	switch len(t.Shape) {
	case 2:
		return t, nil
	case 3:
		if t.Shape[2] == 1 {
			return t.Squeeze(2)
		}
		if t.Shape[0] == 1 {
			return t.Squeeze(0)
		}
		return t.Channel(0)
	}
	return Tensor{}, fmt.Errorf("tensor: cannot reduce mask of shape %v to 2 dimensions", t.Shape)
}

type wireTensor struct {
	Shape []int  `json:"shape"`
	DType string `json:"dtype"`
	Data  string `json:"data"`
}

// Bytes returns the elements as little-endian float32.
func (t Tensor) Bytes() []byte {
	buf := make([]byte, 4*len(t.Data))
	for i, v := range t.Data {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

// MarshalJSON implements json.Marshaler.
func (t Tensor) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireTensor{
		Shape: t.Shape,
		DType: DType,
		Data:  base64.StdEncoding.EncodeToString(t.Bytes()),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Tensor) UnmarshalJSON(b []byte) error {
	var w wireTensor
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if w.DType != DType {
		return fmt.Errorf("tensor: unsupported dtype %q", w.DType)
	}
	raw, err := base64.StdEncoding.DecodeString(w.Data)
	if err != nil {
		return fmt.Errorf("tensor: data: %w", err)
	}
	if len(raw) != 4*numel(w.Shape) {
		return fmt.Errorf("tensor: %d data bytes for shape %v", len(raw), w.Shape)
	}
	data := make([]float32, len(raw)/4)
	for i := range data {
		data[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
	}
	t.Shape, t.Data = w.Shape, data
	return nil
}
