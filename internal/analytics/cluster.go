package analytics

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"gonum.org/v1/gonum/stat"
)

const (
	// ClusterCount is the fixed k of the student clustering.
	ClusterCount = 3
	// MinClusterStudents is the smallest table that gets clustered.
	MinClusterStudents = 3
)

// Cluster summarises one k-means group of students.
type Cluster struct {
	Name         string `json:"name"`
	Students     int    `json:"jumlah_siswa"`
	MeanScore    Value  `json:"rata_rata_skor"`
	MeanAbsences Value  `json:"rata_rata_absensi"`

	center float64
}

// ClusterStudents groups students by standardized (score, absences) with
// k-means. Clusters are returned by descending centroid score and named
// "Cluster 0".."Cluster k-1" in that order.
func ClusterStudents(scores, absences []float64, k int) ([]Cluster, error) {
	if len(scores) != len(absences) {
		return nil, fmt.Errorf("score and absence series differ in length: %d != %d", len(scores), len(absences))
	}
	if len(scores) < k {
		return nil, fmt.Errorf("need at least %d students to form %d clusters, got %d", k, k, len(scores))
	}

	zs, za := standardize(scores), standardize(absences)
	obs := make(clusters.Observations, len(scores))
	for i := range scores {
		obs[i] = clusters.Coordinates{zs[i], za[i]}
	}

	cc, err := kmeans.New().Partition(obs, k)
	if err != nil {
		return nil, fmt.Errorf("failed to partition students: %w", err)
	}

	members := make([][]int, len(cc))
	for i, o := range obs {
		n := cc.Nearest(o)
		members[n] = append(members[n], i)
	}

	out := make([]Cluster, len(cc))
	for c := range cc {
		var s, a []float64
		for _, i := range members[c] {
			s = append(s, scores[i])
			a = append(a, absences[i])
		}
		out[c] = Cluster{
			Students:     len(members[c]),
			MeanScore:    Value(Mean(s)),
			MeanAbsences: Value(Mean(a)),
			center:       cc[c].Center[0],
		}
	}

	slices.SortStableFunc(out, func(a, b Cluster) int { return cmp.Compare(b.center, a.center) })
	for i := range out {
		out[i].Name = fmt.Sprintf("Cluster %d", i)
	}
	return out, nil
}

// standardize scales xs to zero mean and unit population variance.
// A constant series maps to zeros.
func standardize(xs []float64) []float64 {
	mean, std := stat.PopMeanStdDev(xs, nil)
	out := make([]float64, len(xs))
	for i, x := range xs {
		if std == 0 {
			continue
		}
		out[i] = (x - mean) / std
	}
	return out
}
