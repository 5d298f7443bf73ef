package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Projection holds rows projected onto the leading principal components.
type Projection struct {
	Components        int
	Scores            *mat.Dense
	RowLabels         []string
	VarianceExplained []float64
}

// PCA projects the matrix onto its leading principal components. The
// number of components is capped by the matrix width.
func PCA(m *Matrix, components int) (*Projection, error) {
	rows, cols := m.Data.Dims()
	if rows < 2 {
		return nil, fmt.Errorf("need at least 2 rows for PCA, got %d", rows)
	}
	if components < 1 {
		return nil, fmt.Errorf("need at least 1 component, got %d", components)
	}
	if components > cols {
		components = cols
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(m.Data, nil); !ok {
		return nil, fmt.Errorf("principal component decomposition failed")
	}

	var vectors mat.Dense
	pc.VectorsTo(&vectors)

	var scores mat.Dense
	scores.Mul(m.Data, vectors.Slice(0, cols, 0, components))

	variances := pc.VarsTo(nil)
	total := floats.Sum(variances)

	explained := make([]float64, components)
	for i := 0; i < components; i++ {
		if total > 0 {
			explained[i] = variances[i] / total
		}
	}

	return &Projection{
		Components:        components,
		Scores:            &scores,
		RowLabels:         m.RowLabels,
		VarianceExplained: explained,
	}, nil
}

// TotalVarianceExplained sums the per-component fractions.
func (p *Projection) TotalVarianceExplained() float64 {
	return floats.Sum(p.VarianceExplained)
}
