package tools

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/finabit/mcp-server/faq"
	"github.com/finabit/mcp-server/finabit"
)

// flex renders an optional numeric field, empty when the API sent no value.
func flex(n finabit.FlexNumber) string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Float64, 'g', -1, 64)
}

// FormatItems renders one page of inventory as markdown, one block per item.
func FormatItems(page *finabit.ItemsPage) string {
	if len(page.Items) == 0 {
		return "No items found in the inventory."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Items Inventory** (Page %d of %d)\n", page.CurrentPage, page.TotalPages)
	fmt.Fprintf(&b, "Showing %d of %d total items:\n\n", len(page.Items), page.TotalCount)

	for i, item := range page.Items {
		fmt.Fprintf(&b, "**Item %d:**\n", i+1)
		fmt.Fprintf(&b, "- ID: %d\n", item.ID)
		fmt.Fprintf(&b, "- ItemID: %s\n", item.ItemID)
		fmt.Fprintf(&b, "- Name: %s\n", item.ItemName)
		fmt.Fprintf(&b, "- Unit Name: %s\n", item.UnitName)
		fmt.Fprintf(&b, "- Unit ID: %d\n", item.UnitID)
		fmt.Fprintf(&b, "- Item Group ID: %d\n", item.ItemGroupID)
		fmt.Fprintf(&b, "- Item Group: %s\n", item.ItemGroup)
		fmt.Fprintf(&b, "- Taxable: %d\n", item.Taxable)
		fmt.Fprintf(&b, "- Active: %d\n", item.Active)
		fmt.Fprintf(&b, "- Dogana: %d\n", item.Dogana)
		fmt.Fprintf(&b, "- Akciza: %d\n", item.Akciza)
		fmt.Fprintf(&b, "- Color: %s\n", item.Color)
		fmt.Fprintf(&b, "- PDA Item Name: %s\n", item.PDAItemName)
		fmt.Fprintf(&b, "- VAT Value: %s\n", flex(item.VATValue))
		fmt.Fprintf(&b, "- Akciza Value: %s\n", flex(item.AkcizaValue))
		fmt.Fprintf(&b, "- Maximum Quantity: %s\n", flex(item.MaximumQuantity))
		fmt.Fprintf(&b, "- Coefficient: %s\n", flex(item.Coefficient))
		fmt.Fprintf(&b, "- Barcode1: %s\n", item.Barcode1)
		fmt.Fprintf(&b, "- Barcode2: %s\n", item.Barcode2)
		fmt.Fprintf(&b, "- Sales Price2: %s\n", flex(item.SalesPrice2))
		fmt.Fprintf(&b, "- Sales Price3: %s\n", flex(item.SalesPrice3))
		fmt.Fprintf(&b, "- Origin: %s\n", item.Origin)
		fmt.Fprintf(&b, "- Category: %s\n", item.Category)
		fmt.Fprintf(&b, "- PLU: %s\n", item.PLU)
		fmt.Fprintf(&b, "- Item Template: %s\n", item.ItemTemplate)
		fmt.Fprintf(&b, "- Weight: %s\n", flex(item.Weight))
		fmt.Fprintf(&b, "- Author: %s\n", item.Author)
		fmt.Fprintf(&b, "- Publisher: %s\n", item.Publisher)
		fmt.Fprintf(&b, "- Custom Field 1: %s\n", item.CustomField1)
		fmt.Fprintf(&b, "- Custom Field 2: %s\n", item.CustomField2)
		fmt.Fprintf(&b, "- Custom Field 3: %s\n", item.CustomField3)
		fmt.Fprintf(&b, "- Custom Field 4: %s\n", item.CustomField4)
		fmt.Fprintf(&b, "- Custom Field 5: %s\n", item.CustomField5)
		fmt.Fprintf(&b, "- Custom Field 6: %s\n", item.CustomField6)
		fmt.Fprintf(&b, "- Barcode3: %s\n", item.Barcode3)
		fmt.Fprintf(&b, "- Netto Brutto Weight: %s\n", flex(item.NettoBruttoWeight))
		fmt.Fprintf(&b, "- Bruto Weight: %s\n", flex(item.BrutoWeight))
		fmt.Fprintf(&b, "- Max Discount: %s\n", flex(item.MaxDiscount))
		fmt.Fprintf(&b, "- Shifra Prodhuesit: %s\n", item.ShifraProdhuesit)
		fmt.Fprintf(&b, "- Prodhuesi: %s\n", item.Prodhuesi)
		b.WriteString("\n")
	}

	if page.TotalPages > 1 {
		fmt.Fprintf(&b, "\n*Use `page_number` to view other pages (1-%d)*", page.TotalPages)
	}

	return b.String()
}

// FormatTransactions renders sales or purchase lines as markdown. kind is the
// singular noun used in the headings ("sale" or "purchase").
func FormatTransactions(kind string, txns []finabit.Transaction, fromDate, toDate string) string {
	if len(txns) == 0 {
		return fmt.Sprintf("No %ss found between %s and %s.", kind, fromDate, toDate)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d %s(s) for the period %s to %s:\n\n", len(txns), kind, fromDate, toDate)

	title := strings.ToUpper(kind[:1]) + kind[1:]
	for i, txn := range txns {
		fmt.Fprintf(&b, "**%s %d:**\n", title, i+1)
		fmt.Fprintf(&b, "- ID: %d\n", txn.ID)
		fmt.Fprintf(&b, "- Invoice No: %s\n", txn.InvoiceNo)
		fmt.Fprintf(&b, "- Date: %s\n", txn.Date)
		fmt.Fprintf(&b, "- Customer ID: %d\n", txn.CustomerID)
		fmt.Fprintf(&b, "- Customer: %s\n", txn.Customer)
		fmt.Fprintf(&b, "- Salesman: %s\n", txn.Salesman)
		fmt.Fprintf(&b, "- Status: %s\n", txn.InvoiceStatus)
		fmt.Fprintf(&b, "- Code: %s\n", txn.Code)
		fmt.Fprintf(&b, "- Product: %s\n", txn.Product)
		fmt.Fprintf(&b, "- Unit: %s\n", txn.Unit)
		fmt.Fprintf(&b, "- Quantity: %s\n", flex(txn.Quantity))
		fmt.Fprintf(&b, "- Unit Price: %s\n", flex(txn.UnitPrice))
		fmt.Fprintf(&b, "- Total Value: %s\n", strconv.FormatFloat(txn.Value, 'g', -1, 64))
		b.WriteString("\n")
	}

	return b.String()
}

// FormatAnswer renders a FAQ lookup result as markdown.
func FormatAnswer(answer *faq.Answer) string {
	if answer.Answer == "" {
		return "No matching answer found in the FAQ."
	}
	return fmt.Sprintf("**%s**\n\n%s", answer.MatchedQuestion, answer.Answer)
}
