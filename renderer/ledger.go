package renderer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/etnz/coinfolio"
	md "github.com/nao1215/markdown"
)

// Transaction renders a transaction to a string.
func Transaction(tx coinfolio.Transaction) string {
	switch tx.Kind {
	case coinfolio.KindBuy:
		return fmt.Sprintf("Bought %s %s at %s for %s", tx.Quantity, tx.AssetID, tx.Price, tx.Amount())
	case coinfolio.KindSell:
		profit, _ := tx.RealizedProfit()
		return fmt.Sprintf("Sold %s %s at %s for %s (realized %s)", tx.Quantity, tx.AssetID, tx.Price, tx.Amount(), profit.SignedString())
	default:
		return string(tx.Kind)
	}
}

// Transactions renders the transaction log.
func Transactions(txs []coinfolio.Transaction) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Transactions")
	if len(txs) == 0 {
		doc.PlainText("No transactions yet.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Time", "Type", "Asset", "Quantity", "Price", "Amount", "Realized"},
	}
	for _, tx := range txs {
		realized := ""
		if profit, ok := tx.RealizedProfit(); ok {
			realized = profit.SignedString()
		}
		table.Rows = append(table.Rows, []string{
			tx.Time.Format(time.DateTime),
			string(tx.Kind),
			tx.AssetID,
			tx.Quantity.String(),
			tx.Price.String(),
			tx.Amount().String(),
			realized,
		})
	}
	doc.Table(table)
	return doc.String()
}

// Valuation renders the market value of a ledger, and its realized profit.
func Valuation(v *coinfolio.Valuation, realized coinfolio.Money) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Portfolio Value")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Total Value"), md.Bold(v.Total.String())},
		Rows: [][]string{
			{"Realized Profit", realized.SignedString()},
		},
	})

	if len(v.Assets) == 0 {
		doc.PlainText("No holdings.")
		return doc.String()
	}

	doc.H2("Holdings")
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Asset", "Quantity", "Avg. Cost", "Price", "Value", "Unrealized"},
	}
	for _, a := range v.Assets {
		price, value, gain := na, na, na
		if a.Resolved {
			price, value, gain = a.Price.String(), a.Value.String(), a.UnrealizedGain.SignedString()
		}
		table.Rows = append(table.Rows, []string{
			a.AssetID,
			a.Quantity.String(),
			a.AvgCost.String(),
			price,
			value,
			gain,
		})
	}
	doc.Table(table)

	if unresolved := v.Unresolved(); len(unresolved) > 0 {
		doc.PlainText(md.Italic("Price unavailable, excluded from the total:"))
		doc.BulletList(unresolved...)
	}
	return doc.String()
}

// DailyChange renders the 24h change of a set of positions.
func DailyChange(c coinfolio.DailyChange) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2("24h Change")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{md.Bold("Change"), md.Bold(c.Change.SignedString()), c.Percent.SignedString()},
		Rows: [][]string{
			{"Value Now", c.Value.String(), ""},
			{"Value 24h Ago", c.Previous.String(), ""},
		},
	})
	if len(c.Skipped) > 0 {
		doc.PlainText(md.Italic("No usable 24h change for:"))
		doc.BulletList(c.Skipped...)
	}
	return doc.String()
}
