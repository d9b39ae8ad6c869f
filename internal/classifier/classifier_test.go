package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cam-screen/config"
	"cam-screen/internal/surface"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoClassModel: 输出 0 = 像素和，输出 1 = 常数 bias
func twoClassModel(bias float64) ModelSpec {
	ones := make([]float64, InputSize)
	for i := range ones {
		ones[i] = 1
	}
	return ModelSpec{
		Labels: []string{"zero", "one"},
		Layers: []LayerSpec{{
			Weights: [][]float64{ones, make([]float64, InputSize)},
			Bias:    []float64{0, bias},
		}},
	}
}

func writeModel(t *testing.T, path string, spec ModelSpec) {
	t.Helper()
	b, err := json.Marshal(spec)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o644))
}

func TestDense_Classify(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	writeModel(t, path, twoClassModel(2))

	d, err := NewDense(path)
	require.NoError(t, err)

	var blank surface.CaptureBuffer
	assert.Equal(t, "Result: one (88.1%)", d.Classify(&blank))

	var full surface.CaptureBuffer
	for i := range full {
		full[i] = surface.PixelFilled
	}
	assert.True(t, strings.HasPrefix(d.Classify(&full), "Result: zero"))
}

func TestDense_HiddenLayer(t *testing.T) {
	hidden := make([][]float64, 2)
	hidden[0] = make([]float64, InputSize)
	hidden[1] = make([]float64, InputSize)
	hidden[0][0] = 1  // 左上角像素
	hidden[1][0] = -1 // 被 ReLU 截断
	spec := ModelSpec{Layers: []LayerSpec{
		{Weights: hidden, Bias: []float64{0, 0}, Activation: ActivationReLU},
		{Weights: [][]float64{{0, 0}, {5, 0}, {0, 5}}, Bias: []float64{1, 0, 0}, Activation: ActivationSoftmax},
	}}
	path := filepath.Join(t.TempDir(), "model.json")
	writeModel(t, path, spec)

	d, err := NewDense(path)
	require.NoError(t, err)

	var buf surface.CaptureBuffer
	assert.True(t, strings.HasPrefix(d.Classify(&buf), "Result: 0 "))
	buf[0] = surface.PixelFilled
	assert.True(t, strings.HasPrefix(d.Classify(&buf), "Result: 1 "))
}

func TestDense_MissingModel(t *testing.T) {
	d, err := NewDense(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
	var buf surface.CaptureBuffer
	assert.Equal(t, NoModelLabel, d.Classify(&buf))
}

func TestDense_RejectsBadShapes(t *testing.T) {
	cases := map[string]ModelSpec{
		"no layers":  {},
		"short row":  {Layers: []LayerSpec{{Weights: [][]float64{{1, 2}}, Bias: []float64{0}}}},
		"bias len":   {Layers: []LayerSpec{{Weights: [][]float64{make([]float64, InputSize)}, Bias: nil}}},
		"activation": {Layers: []LayerSpec{{Weights: [][]float64{make([]float64, InputSize)}, Bias: []float64{0}, Activation: "tanh"}}},
		"labels":     {Labels: []string{"a", "b"}, Layers: []LayerSpec{{Weights: [][]float64{make([]float64, InputSize)}, Bias: []float64{0}}}},
	}
	for name, spec := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := buildModel(spec)
			assert.Error(t, err)
		})
	}
}

func TestDense_ReloadKeepsOldOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	writeModel(t, path, twoClassModel(2))
	d, err := NewDense(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))
	assert.Error(t, d.Reload())

	var blank surface.CaptureBuffer
	assert.Equal(t, "Result: one (88.1%)", d.Classify(&blank))
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	writeModel(t, path, twoClassModel(2))
	d, err := NewDense(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, d) }()

	next, err := json.Marshal(twoClassModel(-2))
	require.NoError(t, err)

	var blank surface.CaptureBuffer
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, next, 0o644)
		return strings.HasPrefix(d.Classify(&blank), "Result: zero")
	}, 5*time.Second, 300*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestRemote_Classify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req remoteReq
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.Pixels, InputSize)
		assert.Equal(t, 255, req.Pixels[3])
		_ = json.NewEncoder(w).Encode(remoteResp{Label: "Result: 3"})
	}))
	defer srv.Close()

	var buf surface.CaptureBuffer
	buf[3] = surface.PixelFilled
	assert.Equal(t, "Result: 3", NewRemote(srv.URL, time.Second).Classify(&buf))
}

func TestRemote_ErrorsBecomeLabel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(remoteResp{Error: "boom"})
	}))
	defer srv.Close()

	var buf surface.CaptureBuffer
	got := NewRemote(srv.URL, time.Second).Classify(&buf)
	assert.True(t, strings.HasPrefix(got, "Error: "))
	assert.Contains(t, got, "boom")

	unreachable := NewRemote("http://127.0.0.1:1/classify", 200*time.Millisecond)
	assert.True(t, strings.HasPrefix(unreachable.Classify(&buf), "Error: "))
}

func TestNew_ByMode(t *testing.T) {
	cls, err := New(config.ClassifierConfig{Mode: config.ClassifierNone})
	require.NoError(t, err)
	var buf surface.CaptureBuffer
	assert.Equal(t, NoModelLabel, cls.Classify(&buf))

	cls, err = New(config.ClassifierConfig{Mode: config.ClassifierRemote, RemoteURL: "http://x", TimeoutSec: 1})
	require.NoError(t, err)
	assert.IsType(t, &Remote{}, cls)

	cls, err = New(config.ClassifierConfig{Mode: config.ClassifierDense, ModelPath: filepath.Join(t.TempDir(), "m.json")})
	require.NoError(t, err)
	assert.Equal(t, NoModelLabel, cls.Classify(&buf))

	_, err = New(config.ClassifierConfig{Mode: "svm"})
	assert.Error(t, err)
}

func TestRunTask_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	assert.NoError(t, RunTask(ctx, 5*time.Millisecond))
}
