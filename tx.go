package sqlite

import "errors"

// Executor is the statement execution surface shared by Conn and Tx.
// Code that should run both inside and outside a transaction can accept it
// instead of a concrete type.
type Executor interface {
	Execute(query string, args ...Value) ([]Row, error)
	LastInsertRowID() int64
}

var (
	_ Executor = (*Conn)(nil)
	_ Executor = (*Tx)(nil)
)

// Tx is the execution capability handed to a WithTx body. Its calls route
// past the connection lock the transaction already holds, so statements
// issued inside the transaction never wait on the transaction itself.
//
// A Tx is only valid for the duration of the WithTx call that produced it.
type Tx struct {
	conn *Conn
}

// Execute behaves like Conn.Execute, inside the open transaction.
func (tx *Tx) Execute(query string, args ...Value) ([]Row, error) {
	return tx.conn.exec(query, args)
}

// LastInsertRowID behaves like Conn.LastInsertRowID, inside the open
// transaction.
func (tx *Tx) LastInsertRowID() int64 {
	return tx.conn.lastInsertRowID()
}

// WithTx runs fn between BEGIN TRANSACTION and COMMIT. When fn returns an
// error the transaction is rolled back and that error is returned; if the
// rollback itself also fails, its error is joined to the original rather
// than swallowed, so both stay matchable with errors.Is and errors.As.
//
// Transactions do not nest: calling WithTx from inside a transaction body
// would deadlock on the connection lock. Issue savepoints through the Tx
// instead if partial rollback is needed.
func (c *Conn) WithTx(fn func(tx *Tx) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.exec("BEGIN TRANSACTION", nil); err != nil {
		return err
	}
	if err := fn(&Tx{conn: c}); err != nil {
		if _, rberr := c.exec("ROLLBACK", nil); rberr != nil {
			return errors.Join(err, rberr)
		}
		return err
	}
	_, err := c.exec("COMMIT", nil)
	return err
}
