package training

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"go.uber.org/zap"
)

const (
	// DefaultSeed keeps splits reproducible across runs.
	DefaultSeed int64 = 42

	baselineTestSize = 0.2
	testSizeMargin   = 0.01
	// Corpora below this size fall back to training and evaluating on everything.
	smallCorpusRows = 30
)

var (
	ErrStratifyInfeasible = errors.New("stratified split infeasible")
	ErrSplitInfeasible    = errors.New("train/test split infeasible")
)

// SplitStrategy records which branch of the policy produced a split.
type SplitStrategy string

const (
	SplitStratified SplitStrategy = "stratified"
	SplitRandom     SplitStrategy = "random"
	SplitFullSet    SplitStrategy = "full_set"
)

// Split holds row indices into the corpus.
type Split struct {
	Train    []int
	Test     []int
	Strategy SplitStrategy
	TestSize float64
}

// TestSizeFor returns max(0.2, nClasses/n + 0.01).
func TestSizeFor(nClasses, n int) float64 {
	if n <= 0 {
		return baselineTestSize
	}
	return math.Max(baselineTestSize, float64(nClasses)/float64(n)+testSizeMargin)
}

// ChooseSplit applies the adaptive policy: stratified first, then the full set for
// small corpora, then a plain random split. It fails only when every option is exhausted.
func ChooseSplit(labels []string, seed int64, logger *zap.Logger) (Split, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := len(labels)
	if n == 0 {
		return Split{}, fmt.Errorf("%w: empty corpus", ErrSplitInfeasible)
	}
	testSize := TestSizeFor(countClasses(labels), n)

	train, test, err := StratifiedSplit(labels, testSize, seed)
	if err == nil {
		return Split{Train: train, Test: test, Strategy: SplitStratified, TestSize: testSize}, nil
	}
	logger.Info("stratified split unavailable", zap.Error(err), zap.Int("rows", n), zap.Float64("test_size", testSize))

	if n < smallCorpusRows {
		logger.Warn("small dataset detected, training on full set without hold-out test; evaluation is optimistic",
			zap.Int("rows", n))
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return Split{Train: all, Test: all, Strategy: SplitFullSet, TestSize: testSize}, nil
	}

	train, test, err = RandomSplit(n, testSize, seed)
	if err != nil {
		return Split{}, fmt.Errorf("%w: %v", ErrSplitInfeasible, err)
	}
	logger.Warn("proceeding without stratification", zap.Int("rows", n))
	return Split{Train: train, Test: test, Strategy: SplitRandom, TestSize: testSize}, nil
}

func splitSizes(n int, testSize float64) (nTrain, nTest int, err error) {
	if testSize <= 0 || testSize >= 1 {
		return 0, 0, fmt.Errorf("test_size=%.4f should be in the (0, 1) range", testSize)
	}
	nTest = int(math.Ceil(testSize * float64(n)))
	nTrain = n - nTest
	if nTrain <= 0 || nTest <= 0 {
		return 0, 0, fmt.Errorf("with n_samples=%d and test_size=%.4f the resulting train set would be empty", n, testSize)
	}
	return nTrain, nTest, nil
}

// RandomSplit shuffles row indices with a seeded source and cuts off the test share.
func RandomSplit(n int, testSize float64, seed int64) (train, test []int, err error) {
	nTrain, nTest, err := splitSizes(n, testSize)
	if err != nil {
		return nil, nil, err
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	test = append([]int(nil), perm[:nTest]...)
	train = append([]int(nil), perm[nTest:nTest+nTrain]...)
	return train, test, nil
}

// StratifiedSplit keeps every class in both subsets, proportionally to its size.
func StratifiedSplit(labels []string, testSize float64, seed int64) (train, test []int, err error) {
	n := len(labels)
	nTrain, nTest, err := splitSizes(n, testSize)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrStratifyInfeasible, err)
	}

	classes, members := groupByClass(labels)
	for i, c := range classes {
		if len(members[i]) < 2 {
			return nil, nil, fmt.Errorf("%w: class %q has only %d member", ErrStratifyInfeasible, c, len(members[i]))
		}
	}
	if nTest < len(classes) {
		return nil, nil, fmt.Errorf("%w: test size %d is smaller than the number of classes %d", ErrStratifyInfeasible, nTest, len(classes))
	}
	if nTrain < len(classes) {
		return nil, nil, fmt.Errorf("%w: train size %d is smaller than the number of classes %d", ErrStratifyInfeasible, nTrain, len(classes))
	}

	counts := make([]int, len(classes))
	for i := range members {
		counts[i] = len(members[i])
	}
	perClass := allocate(counts, nTest)

	rng := rand.New(rand.NewSource(seed))
	for i, idx := range members {
		shuffled := append([]int(nil), idx...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		test = append(test, shuffled[:perClass[i]]...)
		train = append(train, shuffled[perClass[i]:]...)
	}
	rng.Shuffle(len(test), func(a, b int) { test[a], test[b] = test[b], test[a] })
	rng.Shuffle(len(train), func(a, b int) { train[a], train[b] = train[b], train[a] })
	return train, test, nil
}

// allocate splits draw across classes proportionally, largest remainders first,
// with each class getting between 1 and count-1 rows. Requires
// len(counts) <= draw <= sum(counts)-len(counts) and every count >= 2.
func allocate(counts []int, draw int) []int {
	total := 0
	for _, c := range counts {
		total += c
	}

	out := make([]int, len(counts))
	type remainder struct {
		class int
		frac  float64
	}
	rems := make([]remainder, len(counts))
	assigned := 0
	for i, c := range counts {
		exact := float64(c) * float64(draw) / float64(total)
		out[i] = int(math.Floor(exact))
		assigned += out[i]
		rems[i] = remainder{class: i, frac: exact - float64(out[i])}
	}
	sort.SliceStable(rems, func(a, b int) bool { return rems[a].frac > rems[b].frac })
	for i := 0; assigned < draw; i = (i + 1) % len(rems) {
		out[rems[i].class]++
		assigned++
	}

	for i := range out {
		for out[i] < 1 {
			j := argmax(len(out), func(j int) int { return out[j] - 1 })
			out[j]--
			out[i]++
		}
		for out[i] > counts[i]-1 {
			j := argmax(len(out), func(j int) int { return counts[j] - 1 - out[j] })
			out[j]++
			out[i]--
		}
	}
	return out
}

// argmax returns the index with the largest positive score.
func argmax(n int, score func(int) int) int {
	best, bestScore := -1, 0
	for j := 0; j < n; j++ {
		if s := score(j); s > bestScore {
			best, bestScore = j, s
		}
	}
	return best
}

func groupByClass(labels []string) ([]string, [][]int) {
	byClass := make(map[string][]int)
	for i, l := range labels {
		byClass[l] = append(byClass[l], i)
	}
	classes := make([]string, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	members := make([][]int, len(classes))
	for i, c := range classes {
		members[i] = byClass[c]
	}
	return classes, members
}

func countClasses(labels []string) int {
	seen := make(map[string]struct{})
	for _, l := range labels {
		seen[l] = struct{}{}
	}
	return len(seen)
}
