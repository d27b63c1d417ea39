package mindbody

// Wire types follow the membership platform's own field naming, which is
// why json tags here are PascalCase.

type Credentials struct {
	Username string `json:"Username"`
	Password string `json:"Password"`
}

type ValidateLoginResult struct {
	GUID    string                 `json:"GUID"`
	Message string                 `json:"Message"`
	Client  map[string]interface{} `json:"Client"`
}

type Contract struct {
	ID            int    `json:"Id"`
	ContractName  string `json:"ContractName"`
	AgreementDate string `json:"AgreementDate"`
	AutopayStatus string `json:"AutopayStatus"`
	StartDate     string `json:"StartDate"`
	EndDate       string `json:"EndDate"`
}

type Membership struct {
	MembershipID int    `json:"MembershipId"`
	Name         string `json:"Name"`
	PaymentDate  string `json:"PaymentDate"`
	Remaining    int    `json:"Remaining"`
}

// ClientService is a purchased pass or class card. Remaining counts down
// with use; ExpirationDate is a zoneless local timestamp like
// "2021-05-31T00:00:00".
type ClientService struct {
	ID             int    `json:"Id"`
	ProductID      int    `json:"ProductId"`
	Name           string `json:"Name"`
	Count          int    `json:"Count"`
	Remaining      int    `json:"Remaining"`
	ActiveDate     string `json:"ActiveDate"`
	ExpirationDate string `json:"ExpirationDate"`
}

type PurchasedItem struct {
	ID        int    `json:"Id"`
	IsService bool   `json:"IsService"`
	BarcodeID string `json:"BarcodeId"`
}

type Sale struct {
	ID             int             `json:"Id"`
	SaleDateTime   string          `json:"SaleDateTime"`
	PurchasedItems []PurchasedItem `json:"PurchasedItems"`
}

type Purchase struct {
	Sale        Sale    `json:"Sale"`
	Description string  `json:"Description"`
	Price       float64 `json:"Price"`
}

type PasswordResetRequest struct {
	UserEmail     string `json:"UserEmail"`
	UserFirstName string `json:"UserFirstName"`
	UserLastName  string `json:"UserLastName"`
}
