package access

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"

	"github.com/fundwit/go-commons/types"
)

// AccessLevel is an admin-defined entitlement rule. Its 1-based Ordinal is
// the identifying index used by portal options and by the client script;
// ordinal 0 is reserved for "no access" and never stored.
type AccessLevel struct {
	ID      types.ID `json:"id"`
	Ordinal int      `json:"ordinal" gorm:"unique_index"`
	Name    string   `json:"name"`

	ContractIDs   IDList `json:"contractIds" gorm:"type:text"`
	MembershipIDs IDList `json:"membershipIds" gorm:"type:text"`
	ServiceIDs    IDList `json:"serviceIds" gorm:"type:text"`

	// RedirectTarget, when set and parseable, is where a redirect-eligible
	// grant navigates to. Unparseable values are ignored at use time.
	RedirectTarget string `json:"redirectTarget"`
}

type AccessLevelCreation struct {
	Name           string `json:"name" binding:"required,lte=128"`
	ContractIDs    []int  `json:"contractIds"`
	MembershipIDs  []int  `json:"membershipIds"`
	ServiceIDs     []int  `json:"serviceIds"`
	RedirectTarget string `json:"redirectTarget" binding:"omitempty,url"`
}

// IDList is a set of external product identifiers, stored comma-joined.
type IDList []int

func (l IDList) Contains(id int) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

func (l IDList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(l))
	for _, id := range l {
		parts = append(parts, strconv.Itoa(id))
	}
	return strings.Join(parts, ","), nil
}

func (l *IDList) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*l = IDList{}
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into IDList", src)
	}
	if raw == "" {
		*l = IDList{}
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make(IDList, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	*l = ids
	return nil
}
