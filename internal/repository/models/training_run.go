package models

import "time"

// TrainingRun summarises one execution of the training command.
type TrainingRun struct {
	ID            string
	DataPath      string
	ModelPath     string
	TotalRows     int
	ClassCount    int
	TrainRows     int
	TestRows      int
	TestSize      float64
	SplitStrategy string
	Accuracy      float64
	CreatedAt     time.Time
}
