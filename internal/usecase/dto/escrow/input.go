package escrowdto

type ListOrdersInput struct {
	// Scope is "purchases" or "sales" for non-operators; ignored for operators.
	Scope        string
	BuyerID      string
	SellerID     string
	EscrowStatus string
	Status       string
	Page         int
	Limit        int
}

type CheckoutInput struct {
	PaymentMethod  string
	NotesEncrypted string
}
