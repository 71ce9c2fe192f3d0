package workflow

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/pankajredekar/stockledger/internal/apperr"
	"github.com/pankajredekar/stockledger/internal/ledger"
	"github.com/pankajredekar/stockledger/internal/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DateLayout is the order timestamp format in the orders file. Seconds are
// dropped on save.
const DateLayout = "2006-01-02 15:04"

const orderFields = 7

type orderRecord struct {
	customerID   string
	customerName string
	order        ledger.Order
}

// SaveOrders writes every order, customer by customer in registration order,
// as order_id,customer_id,customer_name,product_name,quantity,total_price,date.
// The file at path is replaced.
func (w *Workflow) SaveOrders(path string) error {
	count := 0
	err := utils.WriteFileAtomic(path, func(out io.Writer) error {
		cw := csv.NewWriter(out)
		for _, c := range w.ledger.List() {
			for _, o := range c.Orders {
				record := []string{
					strconv.Itoa(o.ID),
					c.ID,
					c.Name,
					o.ProductName,
					strconv.Itoa(o.Quantity),
					o.TotalPrice.String(),
					o.PlacedAt.Local().Format(DateLayout),
				}
				if err := cw.Write(record); err != nil {
					return err
				}
				count++
			}
		}
		cw.Flush()
		return cw.Error()
	})
	if err != nil {
		return fmt.Errorf("failed to save orders: %w", err)
	}

	w.logger.Debug("orders saved", zap.String("path", path), zap.Int("orders", count))
	return nil
}

// LoadOrders reads the orders file at path into the ledger, registering
// customers it has not seen. A missing file loads nothing. The whole file is
// parsed before the ledger is touched.
func (w *Workflow) LoadOrders(path string) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		w.logger.Debug("orders file absent, nothing to load", zap.String("path", path))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open orders: %w", err)
	}
	defer f.Close()

	records, err := w.readOrders(path, f)
	if err != nil {
		return err
	}

	for _, r := range records {
		if err := w.Restore(r.customerID, r.customerName, r.order); err != nil {
			return fmt.Errorf("failed to restore order %d: %w", r.order.ID, err)
		}
	}

	w.logger.Debug("orders loaded",
		zap.String("path", path),
		zap.Int("orders", len(records)),
		zap.Int("next_order_id", w.next),
	)
	return nil
}

func (w *Workflow) readOrders(path string, r io.Reader) ([]orderRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	// unquoted fields may carry a bare " (e.g. 12" Pizza)
	cr.LazyQuotes = true

	var records []orderRecord
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, fmt.Errorf("failed to read orders: %w", err)
			}
			if skipErr := w.corrupt(apperr.Corrupt(path, parseErr.Line, "%v", parseErr.Err)); skipErr != nil {
				return nil, skipErr
			}
			continue
		}

		line, _ := cr.FieldPos(0)
		rec, err := parseOrder(path, line, fields)
		if err != nil {
			if skipErr := w.corrupt(err); skipErr != nil {
				return nil, skipErr
			}
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (w *Workflow) corrupt(err error) error {
	if !w.skipCorrupt {
		return err
	}
	w.logger.Warn("skipping corrupt order record", zap.Error(err))
	return nil
}

func parseOrder(path string, line int, fields []string) (orderRecord, error) {
	if len(fields) != orderFields {
		return orderRecord{}, apperr.Corrupt(path, line, "expected %d fields, got %d", orderFields, len(fields))
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return orderRecord{}, apperr.Corrupt(path, line, "invalid order id %q", fields[0])
	}
	qty, err := strconv.Atoi(fields[4])
	if err != nil {
		return orderRecord{}, apperr.Corrupt(path, line, "invalid quantity %q", fields[4])
	}
	total, err := decimal.NewFromString(fields[5])
	if err != nil {
		return orderRecord{}, apperr.Corrupt(path, line, "invalid total price %q", fields[5])
	}
	placedAt, err := time.ParseInLocation(DateLayout, fields[6], time.Local)
	if err != nil {
		return orderRecord{}, apperr.Corrupt(path, line, "invalid date %q", fields[6])
	}

	return orderRecord{
		customerID:   fields[1],
		customerName: fields[2],
		order: ledger.Order{
			ID:          id,
			ProductName: fields[3],
			Quantity:    qty,
			TotalPrice:  total,
			PlacedAt:    placedAt,
		},
	}, nil
}
