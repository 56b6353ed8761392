package onnx

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// GPUConfig selects CUDA execution for a session. The zero value keeps
// the session on CPU.
type GPUConfig struct {
	UseGPU      bool
	DeviceID    int
	GPUMemLimit uint64
}

var initOnce sync.Once

// EnsureEnvironment locates the ONNX Runtime shared library and
// initializes the runtime environment once per process.
func EnsureEnvironment() error {
	var err error
	initOnce.Do(func() {
		if pathErr := setLibraryPath(); pathErr != nil {
			err = pathErr
			return
		}
		if !ort.IsInitialized() {
			err = ort.InitializeEnvironment()
		}
	})
	if err != nil {
		return fmt.Errorf("onnx: runtime initialization failed: %w", err)
	}
	if !ort.IsInitialized() {
		return errors.New("onnx: runtime environment not initialized")
	}
	return nil
}

func libraryName() (string, error) {
	switch runtime.GOOS {
	case "linux":
		return "libonnxruntime.so", nil
	case "darwin":
		return "libonnxruntime.dylib", nil
	case "windows":
		return "onnxruntime.dll", nil
	default:
		return "", fmt.Errorf("onnx: unsupported operating system %s", runtime.GOOS)
	}
}

func setLibraryPath() error {
	if env := os.Getenv("ONNXRUNTIME_LIB_PATH"); env != "" {
		if _, err := os.Stat(env); err != nil {
			return fmt.Errorf("onnx: ONNXRUNTIME_LIB_PATH: %w", err)
		}
		ort.SetSharedLibraryPath(env)
		return nil
	}

	name, err := libraryName()
	if err != nil {
		return err
	}
	candidates := []string{
		filepath.Join("/usr/local/lib", name),
		filepath.Join("/usr/lib", name),
		filepath.Join("/opt/onnxruntime/lib", name),
		filepath.Join("onnxruntime", "lib", name),
	}
	for _, p := range candidates {
		if _, statErr := os.Stat(p); statErr == nil {
			ort.SetSharedLibraryPath(p)
			return nil
		}
	}
	return fmt.Errorf("onnx: shared library %s not found; set ONNXRUNTIME_LIB_PATH", name)
}

// Session is a dynamic-shape inference session with one input and one
// output, the shape every model in this pipeline exposes.
type Session struct {
	sess       *ort.DynamicAdvancedSession
	inputName  string
	outputName string
}

// NewSession loads the model at modelPath and prepares a session.
// numThreads limits intra-op parallelism when positive.
func NewSession(modelPath string, numThreads int, gpu GPUConfig) (*Session, error) {
	if err := EnsureEnvironment(); err != nil {
		return nil, err
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("onnx: reading model io info: %w", err)
	}
	if len(inputs) != 1 || len(outputs) != 1 {
		return nil, fmt.Errorf("onnx: model must have 1 input and 1 output, got %d/%d",
			len(inputs), len(outputs))
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: creating session options: %w", err)
	}
	defer func() { _ = opts.Destroy() }()

	if numThreads > 0 {
		if err := opts.SetIntraOpNumThreads(numThreads); err != nil {
			return nil, fmt.Errorf("onnx: setting thread count: %w", err)
		}
	}
	if err := configureGPU(opts, gpu); err != nil {
		return nil, err
	}

	sess, err := ort.NewDynamicAdvancedSession(modelPath,
		[]string{inputs[0].Name}, []string{outputs[0].Name}, opts)
	if err != nil {
		return nil, fmt.Errorf("onnx: creating session: %w", err)
	}

	return &Session{
		sess:       sess,
		inputName:  inputs[0].Name,
		outputName: outputs[0].Name,
	}, nil
}

func configureGPU(opts *ort.SessionOptions, gpu GPUConfig) error {
	if !gpu.UseGPU {
		return nil
	}
	cudaOpts, err := ort.NewCUDAProviderOptions()
	if err != nil {
		return fmt.Errorf("onnx: CUDA provider unavailable: %w", err)
	}
	defer func() { _ = cudaOpts.Destroy() }()

	settings := map[string]string{
		"device_id": strconv.Itoa(gpu.DeviceID),
	}
	if gpu.GPUMemLimit > 0 {
		settings["gpu_mem_limit"] = strconv.FormatUint(gpu.GPUMemLimit, 10)
	}
	if err := cudaOpts.Update(settings); err != nil {
		return fmt.Errorf("onnx: updating CUDA provider options: %w", err)
	}
	if err := opts.AppendExecutionProviderCUDA(cudaOpts); err != nil {
		return fmt.Errorf("onnx: appending CUDA provider: %w", err)
	}
	return nil
}

// Run feeds the input tensor through the model and returns the output
// tensor. The output data is copied and owned by the caller.
func (s *Session) Run(input Tensor) (Tensor, error) {
	if s == nil || s.sess == nil {
		return Tensor{}, errors.New("onnx: session is closed")
	}
	if err := input.Validate(); err != nil {
		return Tensor{}, err
	}

	in, err := ort.NewTensor(ort.NewShape(input.Shape...), input.Data)
	if err != nil {
		return Tensor{}, fmt.Errorf("onnx: creating input tensor: %w", err)
	}
	defer func() { _ = in.Destroy() }()

	outputs := []ort.Value{nil}
	if err := s.sess.Run([]ort.Value{in}, outputs); err != nil {
		return Tensor{}, fmt.Errorf("onnx: inference failed: %w", err)
	}
	out := outputs[0]
	defer func() { _ = out.Destroy() }()

	floatOut, ok := out.(*ort.Tensor[float32])
	if !ok {
		return Tensor{}, fmt.Errorf("onnx: expected float32 output, got %T", out)
	}

	shape := out.GetShape()
	data := make([]float32, len(floatOut.GetData()))
	copy(data, floatOut.GetData())
	return Tensor{Data: data, Shape: append([]int64(nil), shape...)}, nil
}

// Close releases the underlying session. It is safe to call twice.
func (s *Session) Close() error {
	if s == nil || s.sess == nil {
		return nil
	}
	err := s.sess.Destroy()
	s.sess = nil
	if err != nil {
		return fmt.Errorf("onnx: destroying session: %w", err)
	}
	return nil
}
