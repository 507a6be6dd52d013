package smoke

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat"

	"github.com/okian/unirank/internal/domain/model"
	"github.com/okian/unirank/internal/domain/normalize"
	"github.com/okian/unirank/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	performerKinds     = 4
	incomeGapEvery     = 10
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

func randomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// variedScore draws a 0-100 score from a mix of performer bands.
func variedScore() float64 {
	switch randomInt(performerKinds) {
	case 0:
		// Average (30 - 70), most common
		return scoreScale * (3 + getRandomFloat()*4)
	case 1:
		// High (70 - 95)
		return scoreScale * (7 + getRandomFloat()*2.5)
	case 2:
		// Low (5 - 30)
		return scoreScale * (0.5 + getRandomFloat()*2.5)
	default:
		return scoreScale * getRandomFloat() * 10
	}
}

// Dataset is a generated rankings file and the means it must produce.
type Dataset struct {
	RunID    string
	Records  [][]string
	Expected []Expectation
}

// Generate builds a synthetic rankings dataset. University names carry the
// run id so runs never collide.
func Generate(ctx context.Context, cfg *Config, stats *Stats) (*Dataset, error) {
	if cfg.Universities <= 0 || len(cfg.Years) == 0 {
		return nil, fmt.Errorf("%w: universities=%d years=%d", ErrConfig, cfg.Universities, len(cfg.Years))
	}
	runID := uuid.NewString()[:8]
	logger.Get().Info(ctx, "generating rankings dataset",
		logger.String("run", runID),
		logger.Int("universities", cfg.Universities),
		logger.Int("years", len(cfg.Years)))

	p := message.NewPrinter(language.English)
	ds := &Dataset{RunID: runID, Records: [][]string{columns}}
	for _, year := range cfg.Years {
		for i := 0; i < cfg.Universities; i++ {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("generation cancelled: %w", err)
			}
			row := []string{
				strconv.Itoa(i + 1),
				fmt.Sprintf("Smoke %s University %03d", runID, i),
				countries[i%len(countries)],
				formatScore(variedScore()),
				formatScore(variedScore()),
				formatScore(variedScore()),
				formatScore(variedScore()),
				income(i),
				formatScore(variedScore()),
				// Thousands separators as in the published rankings.
				p.Sprintf("%d", 100+randomInt(maxStudents)),
				strconv.Itoa(1 + randomInt(maxStaffRatio)),
				strconv.Itoa(randomInt(maxInternationalPct)) + "%",
				"50 : 50",
				strconv.Itoa(year),
			}
			ds.Records = append(ds.Records, row)
		}
	}
	ds.Expected = expectations(ds.Records, cfg.Years)
	stats.RowsGenerated = len(ds.Records) - 1
	return ds, nil
}

// income leaves a gap marker on every tenth university, as the published
// rankings do.
func income(i int) string {
	if i%incomeGapEvery == incomeGapEvery-1 {
		return "-"
	}
	return formatScore(variedScore())
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// expectations derives the per-year mean of every trend indicator using the
// same cleaning rules the service applies.
func expectations(records [][]string, years []int) []Expectation {
	index := map[string]int{}
	for i, name := range records[0] {
		index[name] = i
	}
	indicators := []model.Field{model.WorldRank, model.Teaching, model.Research, model.Citations, model.Income}
	var out []Expectation
	for _, f := range indicators {
		for _, year := range years {
			var values []float64
			for _, row := range records[1:] {
				if row[index[model.ColumnYear]] != strconv.Itoa(year) {
					continue
				}
				v, _ := normalize.Value(f, row[index[string(f)]])
				values = append(values, v)
			}
			if len(values) == 0 {
				continue
			}
			out = append(out, Expectation{Indicator: string(f), Year: year, Mean: stat.Mean(values, nil)})
		}
	}
	return out
}

// WriteCSV writes the dataset to path.
func (d *Dataset) WriteCSV(path string) error {
	df := dataframe.LoadRecords(d.Records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.HasHeader(true),
	)
	if df.Err != nil {
		return fmt.Errorf("build frame: %w", df.Err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dataset: %w", err)
	}
	if err := df.WriteCSV(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write dataset: %w", err)
	}
	return f.Close()
}
