// Package classifier 把 784 字节位图转成显示用的结果文本。
package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sync"

	"cam-screen/internal/logger"
	"cam-screen/internal/surface"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// InputSize 输入维度
const InputSize = surface.Size

// NoModelLabel 未加载模型时的结果
const NoModelLabel = "No model loaded"

// 激活函数
const (
	ActivationReLU    = "relu"
	ActivationSoftmax = "softmax"
	ActivationNone    = ""
)

// LayerSpec 权重文件中的一层：weights 为 [out][in]
type LayerSpec struct {
	Weights    [][]float64 `json:"weights"`
	Bias       []float64   `json:"bias"`
	Activation string      `json:"activation"`
}

// ModelSpec 权重文件格式
type ModelSpec struct {
	Labels []string    `json:"labels"`
	Layers []LayerSpec `json:"layers"`
}

type layer struct {
	w   *mat.Dense
	b   *mat.VecDense
	act string
}

type model struct {
	labels []string
	layers []layer
}

// Dense 全连接网络分类器，权重来自 JSON 文件，可热加载
type Dense struct {
	path string

	mu sync.RWMutex
	m  *model
}

// NewDense 加载权重文件；失败时返回的 Dense 仍可用（输出 NoModelLabel）
func NewDense(path string) (*Dense, error) {
	d := &Dense{path: path}
	return d, d.Reload()
}

// Path 权重文件路径
func (d *Dense) Path() string { return d.path }

// Reload 重新读取权重文件，失败时保留旧模型
func (d *Dense) Reload() error {
	data, err := os.ReadFile(d.path)
	if err != nil {
		return fmt.Errorf("读取模型失败: %w", err)
	}
	var spec ModelSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return fmt.Errorf("解析模型失败: %w", err)
	}
	m, err := buildModel(spec)
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.m = m
	d.mu.Unlock()
	logger.Info("模型已加载: %s（%d 层，%d 类）", d.path, len(m.layers), len(m.labels))
	return nil
}

func buildModel(spec ModelSpec) (*model, error) {
	if len(spec.Layers) == 0 {
		return nil, errors.New("模型没有层")
	}
	in := InputSize
	m := &model{}
	for i, ls := range spec.Layers {
		out := len(ls.Weights)
		if out == 0 {
			return nil, fmt.Errorf("第 %d 层没有权重", i)
		}
		if len(ls.Bias) != out {
			return nil, fmt.Errorf("第 %d 层 bias 长度 %d，应为 %d", i, len(ls.Bias), out)
		}
		data := make([]float64, 0, out*in)
		for r, row := range ls.Weights {
			if len(row) != in {
				return nil, fmt.Errorf("第 %d 层第 %d 行长度 %d，应为 %d", i, r, len(row), in)
			}
			data = append(data, row...)
		}
		switch ls.Activation {
		case ActivationReLU, ActivationSoftmax, ActivationNone:
		default:
			return nil, fmt.Errorf("第 %d 层激活函数未知: %q", i, ls.Activation)
		}
		m.layers = append(m.layers, layer{
			w:   mat.NewDense(out, in, data),
			b:   mat.NewVecDense(out, append([]float64(nil), ls.Bias...)),
			act: ls.Activation,
		})
		in = out
	}
	m.labels = spec.Labels
	if len(m.labels) == 0 {
		for i := 0; i < in; i++ {
			m.labels = append(m.labels, fmt.Sprint(i))
		}
	}
	if len(m.labels) != in {
		return nil, fmt.Errorf("labels 数量 %d 与输出维度 %d 不一致", len(m.labels), in)
	}
	return m, nil
}

// Classify 输出 "Result: <label> (<pct>%)"
func (d *Dense) Classify(pixels *surface.CaptureBuffer) string {
	d.mu.RLock()
	m := d.m
	d.mu.RUnlock()
	if m == nil {
		return NoModelLabel
	}
	idx, p := m.predict(pixels)
	return fmt.Sprintf("Result: %s (%.1f%%)", m.labels[idx], p*100)
}

func (m *model) predict(pixels *surface.CaptureBuffer) (int, float64) {
	x := mat.NewVecDense(InputSize, nil)
	for i, v := range pixels {
		x.SetVec(i, float64(v)/255)
	}
	for _, l := range m.layers {
		r, _ := l.w.Dims()
		y := mat.NewVecDense(r, nil)
		y.MulVec(l.w, x)
		y.AddVec(y, l.b)
		activate(y.RawVector().Data, l.act)
		x = y
	}
	out := x.RawVector().Data
	// 最后一层不是 softmax 时也给出概率
	if m.layers[len(m.layers)-1].act != ActivationSoftmax {
		out = append([]float64(nil), out...)
		softmax(out)
	}
	idx := floats.MaxIdx(out)
	return idx, out[idx]
}

func activate(v []float64, act string) {
	switch act {
	case ActivationReLU:
		for i := range v {
			if v[i] < 0 {
				v[i] = 0
			}
		}
	case ActivationSoftmax:
		softmax(v)
	}
}

func softmax(v []float64) {
	lse := floats.LogSumExp(v)
	for i := range v {
		v[i] = math.Exp(v[i] - lse)
	}
}
