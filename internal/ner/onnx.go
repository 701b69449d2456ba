package ner

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/sells-group/realtor-intake/internal/model"
)

// OnnxOptions locates the token-classification model and its tokenizer.
type OnnxOptions struct {
	ModelPath     string
	TokenizerPath string
	// LibraryPath is the onnxruntime shared library. Empty uses the
	// platform default search path.
	LibraryPath string
	// Labels maps logit index to BIO tag ("B-PER", "I-ORG", "O").
	Labels    []string
	MaxTokens int
}

// OnnxRecognizer runs a BERT-style token classifier through onnxruntime.
type OnnxRecognizer struct {
	tk        *tokenizer.Tokenizer
	session   *ort.DynamicAdvancedSession
	labels    []string
	maxTokens int
}

var envMu sync.Mutex

func initEnvironment(libPath string) error {
	envMu.Lock()
	defer envMu.Unlock()
	if ort.IsInitialized() {
		return nil
	}
	if libPath != "" {
		ort.SetSharedLibraryPath(libPath)
	}
	return ort.InitializeEnvironment()
}

// LoadOnnx initializes onnxruntime and opens the model session.
func LoadOnnx(opts OnnxOptions) (*OnnxRecognizer, error) {
	if len(opts.Labels) == 0 {
		return nil, eris.New("ner: onnx labels are empty")
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 512
	}

	tk, err := pretrained.FromFile(opts.TokenizerPath)
	if err != nil {
		return nil, eris.Wrapf(err, "ner: load tokenizer %s", opts.TokenizerPath)
	}

	if err := initEnvironment(opts.LibraryPath); err != nil {
		return nil, eris.Wrap(err, "ner: init onnxruntime")
	}

	session, err := ort.NewDynamicAdvancedSession(opts.ModelPath,
		[]string{"input_ids", "attention_mask", "token_type_ids"},
		[]string{"logits"},
		nil,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "ner: open onnx session %s", opts.ModelPath)
	}

	return &OnnxRecognizer{
		tk:        tk,
		session:   session,
		labels:    opts.Labels,
		maxTokens: opts.MaxTokens,
	}, nil
}

// Recognize implements Recognizer. Text beyond MaxTokens word pieces is not
// classified.
func (r *OnnxRecognizer) Recognize(_ context.Context, text string) ([]model.EntitySpan, error) {
	enc, err := r.tk.EncodeSingle(text, true)
	if err != nil {
		return nil, eris.Wrap(err, "ner: encode")
	}

	n := len(enc.Ids)
	if n > r.maxTokens {
		n = r.maxTokens
	}
	if n == 0 {
		return nil, nil
	}

	ids := make([]int64, n)
	mask := make([]int64, n)
	types := make([]int64, n)
	for i := 0; i < n; i++ {
		ids[i] = int64(enc.Ids[i])
		mask[i] = int64(enc.AttentionMask[i])
		if i < len(enc.TypeIds) {
			types[i] = int64(enc.TypeIds[i])
		}
	}

	shape := ort.NewShape(1, int64(n))
	idsT, err := ort.NewTensor(shape, ids)
	if err != nil {
		return nil, eris.Wrap(err, "ner: input_ids tensor")
	}
	defer idsT.Destroy() //nolint:errcheck
	maskT, err := ort.NewTensor(shape, mask)
	if err != nil {
		return nil, eris.Wrap(err, "ner: attention_mask tensor")
	}
	defer maskT.Destroy() //nolint:errcheck
	typesT, err := ort.NewTensor(shape, types)
	if err != nil {
		return nil, eris.Wrap(err, "ner: token_type_ids tensor")
	}
	defer typesT.Destroy() //nolint:errcheck

	numLabels := len(r.labels)
	out, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(n), int64(numLabels)))
	if err != nil {
		return nil, eris.Wrap(err, "ner: logits tensor")
	}
	defer out.Destroy() //nolint:errcheck

	if err := r.session.Run([]ort.Value{idsT, maskT, typesT}, []ort.Value{out}); err != nil {
		return nil, eris.Wrap(err, "ner: run session")
	}

	tags := argmaxTags(out.GetData(), n, r.labels)
	for i := 0; i < n && i < len(enc.SpecialTokenMask); i++ {
		if enc.SpecialTokenMask[i] == 1 {
			tags[i] = "O"
		}
	}
	return decodeBIO(text, tags, enc.Offsets[:n]), nil
}

// Close destroys the session.
func (r *OnnxRecognizer) Close() error {
	return r.session.Destroy()
}

func argmaxTags(logits []float32, n int, labels []string) []string {
	tags := make([]string, n)
	width := len(labels)
	for i := 0; i < n; i++ {
		row := logits[i*width : (i+1)*width]
		best := 0
		for j := 1; j < width; j++ {
			if row[j] > row[best] {
				best = j
			}
		}
		tags[i] = labels[best]
	}
	return tags
}
