package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	app "leafscan/internal/application"
	"leafscan/internal/container"
	"leafscan/internal/domain/entity"
)

const (
	rule = "=================================================="

	msgMenu = `
` + rule + `
📋 MAIN MENU
` + rule + `
1. Analyze dataset
2. Test model on random images
3. Test a specific image
4. Show image with detections
5. Exit`

	msgChoose        = "\nChoose an option (1-5): "
	msgInvalidOption = "❌ Invalid option!"
	msgBye           = "👋 Exiting..."
	msgNoDataset     = "❌ Dataset not loaded!"
	msgNoModel       = "❌ Model not loaded!"
	msgAskCount      = "How many images to test? (default: %d): "
	msgInvalidCount  = "❌ Invalid number. Using default: %d"
	msgAskImage      = "Image name (e.g. 1.jpg): "
	msgAskOverlay    = "Show image with detections? (y/n): "
)

// Options параметры консоли.
type Options struct {
	Threshold  float64
	SampleSize int
	ModelPath  string // только для сообщений
	ModelError error  // почему модель не загрузилась, nil если загрузилась
}

// Console — интерактивное текстовое меню поверх сервисов приложения.
type Console struct {
	datasets  *app.DatasetService
	inference *app.InferenceService
	opts      Options
	in        *bufio.Scanner
	out       io.Writer
	logger    *zap.Logger

	table *entity.DatasetTable
}

// New создаёт консоль, читающую команды из in и печатающую в out.
func New(c *container.Container, opts Options, in io.Reader, out io.Writer, logger *zap.Logger) *Console {
	if opts.SampleSize <= 0 {
		opts.SampleSize = app.DefaultSampleSize
	}
	return &Console{
		datasets:  c.DatasetService,
		inference: c.InferenceService,
		opts:      opts,
		in:        bufio.NewScanner(in),
		out:       out,
		logger:    logger.Named("console"),
	}
}

// Start загружает датасет и модель, прогоняет пробную выборку и открывает меню.
func (c *Console) Start(ctx context.Context) error {
	c.println("🍃 COFFEE LEAF DISEASE DETECTOR")
	c.println(rule)

	c.println("\n1️⃣ Loading dataset...")
	if !c.loadDataset(ctx) {
		c.println("❌ Failed to load dataset. Check that the file exists.")
		return errors.New("dataset is not available")
	}
	c.analyze()

	c.println("\n2️⃣ Loading model...")
	if c.opts.ModelError != nil {
		c.printf("❌ Failed to load model: %v\n", c.opts.ModelError)
		c.printf("Check that %s exists.\n", c.opts.ModelPath)
		return c.opts.ModelError
	}
	c.printf("✅ Model loaded: %s\n", c.opts.ModelPath)

	c.println("\n3️⃣ Testing model...")
	c.testRandom(ctx, c.opts.SampleSize)

	return c.Menu(ctx)
}

// Menu крутит меню до выбора "5" или конца ввода.
func (c *Console) Menu(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.println(msgMenu)

		choice, ok := c.prompt(msgChoose)
		if !ok {
			c.println("\n" + msgBye)
			return nil
		}

		switch choice {
		case "1":
			c.analyze()
		case "2":
			c.askAndTestRandom(ctx)
		case "3":
			c.testSpecific(ctx)
		case "4":
			c.showWithDetections(ctx)
		case "5":
			c.println(msgBye)
			return nil
		default:
			c.println(msgInvalidOption)
		}
	}
}

// Stats загружает датасет и печатает статистику.
func (c *Console) Stats(ctx context.Context) error {
	table, err := c.datasets.Load(ctx)
	if err != nil {
		c.printf("❌ Error loading dataset: %v\n", err)
		return err
	}
	c.table = table
	summary, err := app.Summarize(table)
	if err != nil {
		c.printf("❌ %v\n", err)
		return err
	}
	c.printSummary(summary)
	return nil
}

// QuickCheck проверяет по шагам, что всё загружается и модель отвечает.
func (c *Console) QuickCheck(ctx context.Context) error {
	c.println("🧪 QUICK SYSTEM CHECK")
	c.println(rule[:40])

	c.println("1️⃣ Loading dataset...")
	if !c.loadDataset(ctx) {
		return errors.New("dataset check failed")
	}

	c.println("\n2️⃣ Loading model...")
	if c.opts.ModelError != nil {
		c.printf("❌ Error loading model: %v\n", c.opts.ModelError)
		return c.opts.ModelError
	}
	c.println("✅ Model loaded")

	c.println("\n3️⃣ Analyzing dataset...")
	summary, err := app.Summarize(c.table)
	if err != nil {
		c.printf("❌ Error during analysis: %v\n", err)
		return err
	}
	c.printSummary(summary)
	c.println("✅ Dataset analysis done")

	c.println("\n4️⃣ Testing prediction...")
	names, err := c.inference.Images().List(1)
	switch {
	case err != nil:
		c.printf("⚠️ Images directory not available: %v\n", err)
	case len(names) == 0:
		c.println("⚠️ No images found to test")
	default:
		c.printf("📸 Testing with: %s\n", names[0])
		path, err := c.inference.Images().Resolve(names[0])
		if err == nil {
			var res *entity.InferenceResult
			res, err = c.inference.Predict(ctx, path, c.opts.Threshold)
			if err == nil {
				c.println("✅ Prediction succeeded")
				c.printDetections(res.Detections)
			}
		}
		if err != nil {
			c.printf("❌ Prediction error: %v\n", err)
			return err
		}
		c.printSweep(ctx, path)
	}

	c.println("\n" + rule[:40])
	c.println("🎉 CHECK COMPLETED SUCCESSFULLY!")
	return nil
}

func (c *Console) printSweep(ctx context.Context, path string) {
	c.println("\n5️⃣ Threshold sweep...")
	for _, p := range c.inference.ThresholdSweep(ctx, path, nil) {
		if p.Err != nil {
			c.printf("   threshold %.1f: ❌ %v\n", p.Threshold, p.Err)
			continue
		}
		c.printf("   threshold %.1f: %d objects\n", p.Threshold, len(p.Result.Detections))
	}
}

func (c *Console) loadDataset(ctx context.Context) bool {
	table, err := c.datasets.Load(ctx)
	if err != nil {
		c.printf("❌ Error loading dataset: %v\n", err)
		return false
	}
	c.table = table
	c.printf("✅ Dataset loaded: %d images\n", table.Len())
	return true
}

func (c *Console) analyze() {
	if c.table == nil {
		c.println(msgNoDataset)
		return
	}
	summary, err := app.Summarize(c.table)
	if err != nil {
		c.printf("❌ %v\n", err)
		return
	}
	c.printSummary(summary)
}

func (c *Console) printSummary(s *entity.DatasetSummary) {
	c.println("\n📊 DATASET ANALYSIS:")
	for _, line := range app.FormatSummary(s) {
		c.println(line)
	}
}

func (c *Console) askAndTestRandom(ctx context.Context) {
	def := c.opts.SampleSize
	answer, _ := c.prompt(fmt.Sprintf(msgAskCount, def))
	n := def
	if answer != "" {
		v, err := strconv.Atoi(answer)
		if err != nil || v <= 0 {
			c.printf(msgInvalidCount+"\n", def)
		} else {
			n = v
		}
	}
	c.testRandom(ctx, n)
}

func (c *Console) testRandom(ctx context.Context, n int) {
	if c.table == nil || !c.inference.ModelLoaded() {
		c.println("❌ Dataset or model not loaded!")
		return
	}

	items, err := c.inference.TestRandom(ctx, c.table, n, c.opts.Threshold)
	if err != nil {
		c.printf("❌ %v\n", err)
		return
	}

	c.printf("\n🔍 TESTING %d IMAGES:\n", len(items))
	for _, it := range items {
		if errors.Is(it.Err, entity.ErrFileNotFound) {
			c.printf("⚠️ Image %s not found\n", it.Record.ImageName())
			continue
		}
		c.printf("\n--- Image %s ---\n", it.Record.ID)
		c.printf("Labels: severity=%d, stress=%s\n", it.Record.Severity, stressLabel(it.Record.PredominantStress))
		if it.Err != nil {
			c.printf("❌ Prediction error: %v\n", it.Err)
			continue
		}
		c.printDetections(it.Result.Detections)
	}
}

func (c *Console) testSpecific(ctx context.Context) {
	c.println("\n📸 SPECIFIC IMAGE TEST")
	if names, err := c.inference.Images().List(10); err == nil {
		c.printf("Available images (first 10): %v\n", names)
	}

	name, ok := c.prompt(msgAskImage)
	if !ok {
		return
	}
	path, err := c.inference.Images().Resolve(name)
	if err != nil {
		c.reportMissing(name, err)
		return
	}

	c.printf("🔍 Testing %s...\n", filepath.Base(path))
	res, err := c.inference.Predict(ctx, path, c.opts.Threshold)
	if err != nil {
		c.printf("❌ Prediction error: %v\n", err)
		return
	}
	c.printDetections(res.Detections)

	answer, _ := c.prompt(msgAskOverlay)
	switch strings.ToLower(answer) {
	case "s", "sim", "y", "yes":
		c.showWithDetectionsFor(ctx, name)
	}
}

func (c *Console) showWithDetections(ctx context.Context) {
	c.println("\n🖼️ IMAGE VISUALIZATION")
	name, ok := c.prompt(msgAskImage)
	if !ok {
		return
	}
	c.showWithDetectionsFor(ctx, name)
}

func (c *Console) showWithDetectionsFor(ctx context.Context, name string) {
	if !c.inference.ModelLoaded() {
		c.println(msgNoModel)
		return
	}
	out, res, err := c.inference.Visualize(ctx, name, c.opts.Threshold)
	if err != nil {
		if errors.Is(err, entity.ErrFileNotFound) || errors.Is(err, entity.ErrInvalidInput) {
			c.reportMissing(name, err)
			return
		}
		c.printf("❌ Failed to process image: %v\n", err)
		return
	}
	c.printf("🖼️ %d detection(s) drawn, saved to %s\n", len(res.Detections), out)
}

func (c *Console) reportMissing(name string, err error) {
	c.logger.Debug("image lookup failed", zap.String("name", name), zap.Error(err))
	c.printf("❌ Image %s not found!\n", name)
}

func (c *Console) printDetections(dets []entity.Detection) {
	if len(dets) > 0 {
		c.printf("🔍 Model detected %d objects:\n", len(dets))
	}
	for _, line := range app.FormatDetections(dets) {
		if len(dets) > 0 {
			line = "   " + line
		}
		c.println(line)
	}
}

// prompt печатает вопрос и читает строку. false — ввод закончился.
func (c *Console) prompt(question string) (string, bool) {
	fmt.Fprint(c.out, question)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func stressLabel(v *int) string {
	if v == nil {
		return "n/a"
	}
	return strconv.Itoa(*v)
}
