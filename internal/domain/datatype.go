package domain

import (
	"fmt"
	"sort"
)

// DataType identifies one of the fixed categories of synthetic data the
// extension can generate. The set is closed: every table keyed by DataType is
// a fixed-size array of NumDataTypes entries.
type DataType int

const (
	CNPJ DataType = iota
	CPF
	FullName
	Username
	Password
	UUID
	Email
	Phone
	Address
	Date
	RandomNumber
	RandomText
	URL
	CarPlate
	CreditCard
	PostalCode
	LoremIpsum

	// NumDataTypes is the size of the enumeration.
	NumDataTypes = iota
)

// Adding a data type moves NumDataTypes; these two lines stop compiling until
// the constant below, the tag table and the definitions are updated together.
const expectedDataTypes = 17

var (
	_ [expectedDataTypes - NumDataTypes]struct{}
	_ [NumDataTypes - expectedDataTypes]struct{}
)

var dataTypeTags = [NumDataTypes]string{
	CNPJ:         "cnpj",
	CPF:          "cpf",
	FullName:     "fullName",
	Username:     "username",
	Password:     "password",
	UUID:         "uuid",
	Email:        "email",
	Phone:        "phone",
	Address:      "address",
	Date:         "date",
	RandomNumber: "randomNumber",
	RandomText:   "randomText",
	URL:          "url",
	CarPlate:     "carPlate",
	CreditCard:   "creditCard",
	PostalCode:   "postalCode",
	LoremIpsum:   "loremIpsum",
}

// Valid reports whether t is one of the known data types.
func (t DataType) Valid() bool {
	return t >= 0 && t < NumDataTypes
}

// String returns the wire tag used in persisted configuration (e.g. "fullName").
func (t DataType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("DataType(%d)", int(t))
	}
	return dataTypeTags[t]
}

// MarshalText encodes the data type as its wire tag.
func (t DataType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("unknown data type %d", int(t))
	}
	return []byte(dataTypeTags[t]), nil
}

// UnmarshalText decodes a wire tag.
func (t *DataType) UnmarshalText(text []byte) error {
	parsed, ok := ParseDataType(string(text))
	if !ok {
		return fmt.Errorf("unknown data type %q", string(text))
	}
	*t = parsed
	return nil
}

// ParseDataType resolves a wire tag. Tags are case-sensitive.
func ParseDataType(tag string) (DataType, bool) {
	for i, known := range dataTypeTags {
		if known == tag {
			return DataType(i), true
		}
	}
	return 0, false
}

// AllDataTypes returns every data type in declaration order.
func AllDataTypes() []DataType {
	all := make([]DataType, NumDataTypes)
	for i := range all {
		all[i] = DataType(i)
	}
	return all
}

// Definition describes a data type as shown to the user.
type Definition struct {
	Type            DataType
	Label           string
	Description     string
	DefaultShortcut *Shortcut
}

var definitions = [NumDataTypes]Definition{
	CNPJ:         {Type: CNPJ, Label: "CNPJ", Description: "Gera CNPJ valido com mascara brasileira."},
	CPF:          {Type: CPF, Label: "CPF", Description: "Gera CPF valido com mascara brasileira."},
	FullName:     {Type: FullName, Label: "Nome completo", Description: "Gera nome e sobrenome."},
	Username:     {Type: Username, Label: "Username", Description: "Gera nome de usuario para login."},
	Password:     {Type: Password, Label: "Senha", Description: "Gera senha baseada nas configuracoes de seguranca."},
	UUID:         {Type: UUID, Label: "UUID", Description: "Gera identificador UUID v4."},
	Email:        {Type: Email, Label: "Email", Description: "Gera email de teste."},
	Phone:        {Type: Phone, Label: "Telefone", Description: "Gera telefone brasileiro com DDD."},
	Address:      {Type: Address, Label: "Endereco", Description: "Gera endereco completo em uma linha."},
	Date:         {Type: Date, Label: "Data", Description: "Gera data com formato configuravel."},
	RandomNumber: {Type: RandomNumber, Label: "Numero aleatorio", Description: "Gera numero aleatorio entre 0 e 9999."},
	RandomText:   {Type: RandomText, Label: "Texto aleatorio", Description: "Gera frase curta para testes."},
	URL:          {Type: URL, Label: "URL", Description: "Gera URL valida para testes."},
	CarPlate:     {Type: CarPlate, Label: "Placa de carro", Description: "Gera placa Mercosul."},
	CreditCard:   {Type: CreditCard, Label: "Cartao de credito", Description: "Gera cartao valido por Luhn."},
	PostalCode:   {Type: PostalCode, Label: "Codigo postal (CEP)", Description: "Gera CEP com mascara 00000-000."},
	LoremIpsum:   {Type: LoremIpsum, Label: "Lorem ipsum", Description: "Gera paragrafo lorem ipsum."},
}

// Definitions returns a copy of the definition table in declaration order.
func Definitions() []Definition {
	defs := make([]Definition, NumDataTypes)
	copy(defs, definitions[:])
	return defs
}

// LabelFor returns the human-readable label of t, or its String form if unknown.
func LabelFor(t DataType) string {
	if !t.Valid() {
		return t.String()
	}
	return definitions[t].Label
}

// SortByFavorite returns defs with favorites first. Order among favorites and
// among non-favorites is preserved.
func SortByFavorite(defs []Definition, items *Items) []Definition {
	sorted := make([]Definition, len(defs))
	copy(sorted, defs)

	sort.SliceStable(sorted, func(i, j int) bool {
		return items.favorite(sorted[i].Type) && !items.favorite(sorted[j].Type)
	})
	return sorted
}
