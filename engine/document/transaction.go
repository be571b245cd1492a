package document

import (
	"github.com/npillmayer/draft/core"
)

type transaction struct {
	name  string
	marks []int // undo log positions of nested transactions
	undo  []func()
}

// OpenTransaction starts a transaction. Nested transactions become part
// of the outermost one; they may be aborted on their own.
func (doc *Document) OpenTransaction(name string) {
	if doc.tx != nil {
		doc.tx.marks = append(doc.tx.marks, len(doc.tx.undo))
		return
	}
	doc.tx = &transaction{name: name}
	tracer().Debugf("transaction %q opened", name)
}

// CommitTransaction closes the current transaction and keeps its changes.
func (doc *Document) CommitTransaction() {
	if doc.tx == nil {
		return
	}
	if n := len(doc.tx.marks); n > 0 {
		doc.tx.marks = doc.tx.marks[:n-1]
		return
	}
	tracer().Debugf("transaction %q committed with %d changes", doc.tx.name, len(doc.tx.undo))
	doc.tx = nil
}

// AbortTransaction undoes all changes of the current transaction. For a
// nested transaction, only the changes since its opening are undone.
func (doc *Document) AbortTransaction() {
	if doc.tx == nil {
		return
	}
	tx := doc.tx
	from := 0
	if n := len(tx.marks); n > 0 {
		from = tx.marks[n-1]
		tx.marks = tx.marks[:n-1]
	} else {
		doc.tx = nil
	}
	undo := tx.undo[from:]
	tx.undo = tx.undo[:from]
	saved := doc.tx
	doc.tx = nil // undo steps are not logged
	for i := len(undo) - 1; i >= 0; i-- {
		undo[i]()
	}
	doc.tx = saved
	tracer().Infof("transaction %q aborted, %d changes undone", tx.name, len(undo))
}

// InTransaction is true while a transaction is open.
func (doc *Document) InTransaction() bool {
	return doc.tx != nil
}

func (doc *Document) logUndo(f func()) {
	if doc.tx != nil {
		doc.tx.undo = append(doc.tx.undo, f)
	}
}

// Transact runs f within a transaction, which is aborted if f fails.
func (doc *Document) Transact(name string, f func() error) error {
	doc.OpenTransaction(name)
	if err := f(); err != nil {
		doc.AbortTransaction()
		return err
	}
	doc.CommitTransaction()
	return nil
}

// Commit publishes the result of a modifying operation as one transaction.
// All added objects are recomputed before any object is deleted, so that
// links to the new objects are in place before the old ones vanish.
// Deletions are performed only if del is set.
func (doc *Document) Commit(name string, added, deleted []Handle, del bool) error {
	return doc.Transact(name, func() error {
		for _, obj := range doc.Resolve(added) {
			obj.Touch()
		}
		if err := doc.Recompute(); err != nil {
			tracer().Errorf("%s: recompute failed: %v", name, err)
		}
		if !del || len(deleted) == 0 {
			return nil
		}
		if err := doc.RemoveObjects(deleted); err != nil && !core.Is(err, core.EDEPENDENCY) {
			return err
		}
		return nil
	})
}
