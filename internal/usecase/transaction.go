package usecase

import (
	"context"
	"log"
)

// Transaction runs a sequence of writes against systems that share no
// database transaction. When step i fails, compensations of steps i-1..0 run
// in reverse order.
type Transaction struct {
	operations    []Operation
	compensations []Compensation
}

type Operation struct {
	Name string
	Fn   func(context.Context) error
}

type Compensation struct {
	Name string
	Fn   func(context.Context) error
}

func NewTransaction() *Transaction {
	return &Transaction{}
}

// Step registers an operation and its compensation. compensate may be nil.
func (t *Transaction) Step(name string, fn, compensate func(context.Context) error) {
	t.operations = append(t.operations, Operation{name, fn})
	t.compensations = append(t.compensations, Compensation{"undo_" + name, compensate})
}

func (t *Transaction) Execute(ctx context.Context) error {
	for i, op := range t.operations {
		if err := op.Fn(ctx); err != nil {
			log.Printf("[tx] step %s failed: %v (rolling back %d steps)", op.Name, err, i)
			t.rollback(ctx, i)
			return err
		}
	}
	return nil
}

func (t *Transaction) rollback(ctx context.Context, failedAtIndex int) {
	for i := failedAtIndex - 1; i >= 0; i-- {
		comp := t.compensations[i]
		if comp.Fn == nil {
			continue
		}
		if err := comp.Fn(ctx); err != nil {
			log.Printf("[tx] compensation %s failed: %v (records may be out of sync)", comp.Name, err)
		}
	}
}
