// Package onnx wraps the ONNX Runtime bindings behind a small session
// and tensor layer shared by the detection and recognition models.
package onnx

import (
	"errors"
	"fmt"
)

// Tensor is a float32 tensor in row-major NCHW layout.
type Tensor struct {
	Data  []float32
	Shape []int64
}

// ImageTensor wraps a single normalized image as a [1, C, H, W] tensor.
// data must hold exactly C*H*W values in NCHW order.
func ImageTensor(data []float32, c, h, w int) (Tensor, error) {
	if data == nil {
		return Tensor{}, errors.New("onnx: nil tensor data")
	}
	if want := c * h * w; len(data) != want {
		return Tensor{}, fmt.Errorf("onnx: tensor data length %d, want %d", len(data), want)
	}
	return Tensor{Data: data, Shape: []int64{1, int64(c), int64(h), int64(w)}}, nil
}

// BatchTensor stacks normalized images of identical (C, H, W) into an
// [N, C, H, W] tensor.
func BatchTensor(images [][]float32, c, h, w int) (Tensor, error) {
	if len(images) == 0 {
		return Tensor{}, errors.New("onnx: empty batch")
	}
	per := c * h * w
	out := make([]float32, per*len(images))
	for i, d := range images {
		if len(d) != per {
			return Tensor{}, fmt.Errorf("onnx: batch image %d has length %d, want %d", i, len(d), per)
		}
		copy(out[i*per:(i+1)*per], d)
	}
	return Tensor{Data: out, Shape: []int64{int64(len(images)), int64(c), int64(h), int64(w)}}, nil
}

// Validate checks that the shape is a positive 4-D NCHW shape matching
// the data length.
func (t Tensor) Validate() error {
	if len(t.Shape) != 4 {
		return fmt.Errorf("onnx: shape rank %d, want 4", len(t.Shape))
	}
	want := int64(1)
	for i, v := range t.Shape {
		if v <= 0 {
			return fmt.Errorf("onnx: dimension %d must be positive, got %d", i, v)
		}
		want *= v
	}
	if int64(len(t.Data)) != want {
		return fmt.Errorf("onnx: data length %d does not match shape %v", len(t.Data), t.Shape)
	}
	return nil
}

// Dim returns shape dimension i, or 0 when out of range.
func (t Tensor) Dim(i int) int {
	if i < 0 || i >= len(t.Shape) {
		return 0
	}
	return int(t.Shape[i])
}
