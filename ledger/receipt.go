package ledger

import (
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-frontrun/core"
)

// Result is the outcome of one call: either an Ok value or an Err envelope.
type Result struct {
	value Value
	err   *goerrors.Error
}

func Ok(value Value) Result {
	return Result{value: value}
}

func Err(err *goerrors.Error) Result {
	if err == nil {
		err = core.MapError(fmt.Errorf("ledger: call failed without an error"))
	}
	return Result{err: err}
}

func (r Result) IsOk() bool {
	return r.err == nil
}

func (r Result) Value() Value {
	return r.value
}

func (r Result) Failure() *goerrors.Error {
	return r.err
}

func (r Result) ExpectOk() (Value, error) {
	if r.err != nil {
		return Value{}, fmt.Errorf("ledger: expected ok, got err %s: %w", r.err.TextCode, r.err)
	}
	return r.value, nil
}

func (r Result) ExpectErr() (*goerrors.Error, error) {
	if r.err == nil {
		return nil, fmt.Errorf("ledger: expected err, got ok %s", r.value)
	}
	return r.err, nil
}

func (r Result) String() string {
	if r.err != nil {
		return "(err " + r.err.TextCode + ")"
	}
	return "(ok " + r.value.String() + ")"
}

type Receipt struct {
	TxIndex  int
	Sender   core.Principal
	Contract string
	Function Function
	Result   Result
}

// Block is a mined batch. Receipts are in call order.
type Block struct {
	ID       string
	Height   uint64
	Receipts []Receipt
	MinedAt  time.Time
}

// BlockHeader is the persisted summary of a mined block.
type BlockHeader struct {
	ID      string
	Height  uint64
	TxCount int
	MinedAt time.Time
}

func (b Block) Header() BlockHeader {
	return BlockHeader{ID: b.ID, Height: b.Height, TxCount: len(b.Receipts), MinedAt: b.MinedAt}
}
