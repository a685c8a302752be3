package extract

// BuildInvoicePrompt returns the extraction prompt with the raw document text
// embedded verbatim.
func BuildInvoicePrompt(rawText string) string {
	return `You are an expert invoice data extraction system. Analyze the following invoice text and extract structured data.

INVOICE TEXT:
` + rawText + `

INSTRUCTIONS:
1. Extract the invoice number, vendor name, date, and total amount
2. Extract all line items with their name, quantity, and price
3. Return ONLY valid JSON with no additional text or markdown
4. Use the exact format shown below
5. Ensure all numbers are valid (no currency symbols)
6. Date must be in ISO format (YYYY-MM-DD)

REQUIRED JSON FORMAT:
{
  "invoiceNumber": "string",
  "vendor": "string",
  "date": "YYYY-MM-DD",
  "total": number,
  "items": [
    {
      "name": "string",
      "quantity": number,
      "price": number
    }
  ]
}

Return only the JSON object, nothing else.`
}
