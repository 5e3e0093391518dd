package concerto_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/concerto"
	"github.com/aretw0/concerto/internal/testutils"
	"github.com/aretw0/concerto/pkg/domain"
	"github.com/aretw0/concerto/pkg/metamodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newShop(t *testing.T, opts ...concerto.Option) *concerto.Validator {
	t.Helper()
	v, err := concerto.New(testutils.Shop(t), opts...)
	require.NoError(t, err)
	return v
}

func TestScenarioA_Person(t *testing.T) {
	v := newShop(t)

	assert.NoError(t, v.Validate([]byte(`{"$class":"ns.Person","firstName":"Ada","lastName":"Lovelace"}`)))

	err := v.Validate([]byte(`{"$class":"ns.Person","lastName":"Lovelace"}`))
	require.ErrorIs(t, err, domain.ErrMissingRequiredProperty)
	assert.Equal(t, "firstName", err.(*domain.ValidationError).Property)

	err = v.Validate([]byte(`{"$class":"ns.Person","firstName":"Ada","lastName":"Lovelace","nickname":"Ada"}`))
	require.ErrorIs(t, err, domain.ErrUnknownProperty)
	assert.Equal(t, "nickname", err.(*domain.ValidationError).Property)
}

func TestScenarioB_ObjectGivenArray(t *testing.T) {
	v := newShop(t)
	customer := `{"$class":"ns.Customer","firstName":"Ada","lastName":"Lovelace","email":"ada@example.org"}`

	require.NoError(t, v.Validate([]byte(customer)), "Customer validates on its own")

	err := v.Validate([]byte(`{"$class":"ns.Order","orderId":"o-1","customer":[` + customer + `]}`))
	assert.ErrorIs(t, err, domain.ErrTypeMismatch)
}

func TestScenarioC_UnknownClass(t *testing.T) {
	v := newShop(t)

	for _, doc := range []string{
		`{"$class":"ns.DoesNotExist"}`,
		`{"$class":"ns.DoesNotExist","firstName":"Ada"}`,
		`{"$class":"ns.DoesNotExist","x":[1,{"y":null}],"z":true}`,
	} {
		assert.ErrorIs(t, v.Validate([]byte(doc)), domain.ErrUnknownClass, doc)
	}
}

func TestValidate_InputMalformed(t *testing.T) {
	v := newShop(t)

	err := v.Validate([]byte(`{"$class":"ns.Person",`))
	assert.ErrorIs(t, err, domain.ErrInputMalformed)
}

func TestValidate_DeepInputRejected(t *testing.T) {
	v := newShop(t)

	err := v.Validate(bytes.Repeat([]byte("["), 10<<20))
	assert.ErrorIs(t, err, domain.ErrNestingTooDeep)

	err = v.Validate(bytes.Repeat([]byte(`{"a":`), 20000))
	assert.ErrorIs(t, err, domain.ErrNestingTooDeep)
}

func TestValidate_NullIsNotAbsent(t *testing.T) {
	v := newShop(t)

	err := v.Validate([]byte(`{"$class":"ns.Person","firstName":"Ada","lastName":"Lovelace","age":null}`))
	require.ErrorIs(t, err, domain.ErrTypeMismatch)
	assert.Equal(t, domain.Path("$.age"), err.(*domain.ValidationError).Path)

	assert.NoError(t, v.Validate([]byte(`{"$class":"ns.Person","firstName":"Ada","lastName":"Lovelace"}`)))
}

func TestRequiredPropertyLaw(t *testing.T) {
	v := newShop(t)
	full := map[string]string{"firstName": `"Ada"`, "lastName": `"Lovelace"`}

	for missing := range full {
		var b bytes.Buffer
		b.WriteString(`{"$class":"ns.Person"`)
		for name, val := range full {
			if name != missing {
				b.WriteString(`,"` + name + `":` + val)
			}
		}
		b.WriteString(`}`)
		assert.ErrorIs(t, v.Validate(b.Bytes()), domain.ErrMissingRequiredProperty, missing)
	}
	assert.NoError(t, v.Validate([]byte(`{"$class":"ns.Person","firstName":"Ada","lastName":"Lovelace"}`)))
}

func TestUnknownPropertyLaw(t *testing.T) {
	v := newShop(t)
	valid := []string{
		`{"$class":"ns.Person","firstName":"Ada","lastName":"Lovelace"`,
		`{"$class":"ns.Address","street":"Main","city":"Town"`,
		`{"$class":"ns.OrderLine","sku":"a","quantity":2`,
	}
	for _, prefix := range valid {
		assert.NoError(t, v.Validate([]byte(prefix+`}`)))
		assert.ErrorIs(t, v.Validate([]byte(prefix+`,"extra":1}`)), domain.ErrUnknownProperty)
	}
}

func TestArrayScalarLaw(t *testing.T) {
	v := newShop(t)
	base := `{"$class":"ns.Customer","firstName":"A","lastName":"B","email":"a@b","tags":`

	assert.ErrorIs(t, v.Validate([]byte(base+`"vip"}`)), domain.ErrTypeMismatch)
	assert.NoError(t, v.Validate([]byte(base+`["vip"]}`)))

	line := `{"$class":"ns.OrderLine","sku":"a","quantity":1}`
	order := `{"$class":"ns.Order","orderId":"1","customer":{"$class":"ns.Person","firstName":"A","lastName":"B"},"lines":`
	assert.ErrorIs(t, v.Validate([]byte(order+line+`}`)), domain.ErrTypeMismatch)
	assert.NoError(t, v.Validate([]byte(order+`[`+line+`]}`)))
}

func TestRegexLaw(t *testing.T) {
	v := newShop(t)
	doc := func(zip string) []byte {
		return []byte(`{"$class":"ns.Address","street":"s","city":"c","zip":"` + zip + `"}`)
	}

	for _, ok := range []string{"12345", "00000", "99999"} {
		assert.NoError(t, v.Validate(doc(ok)), ok)
	}
	for _, bad := range []string{"1234", "123456", "abcde", ""} {
		assert.ErrorIs(t, v.Validate(doc(bad)), domain.ErrStringValidation, bad)
	}
}

func TestSelfValidation(t *testing.T) {
	v, err := concerto.NewSystem()
	require.NoError(t, err)

	assert.NoError(t, v.Validate(metamodel.System()))
	assert.NoError(t, v.Validate(testutils.Shop(t)))

	err = v.Validate([]byte(`{"$class":"concerto.metamodel@1.0.0.Model","namespace":"x","declarations":[
		{"$class":"concerto.metamodel@1.0.0.ConceptDeclaration","name":"1bad","isAbstract":false,"properties":[]}]}`))
	assert.ErrorIs(t, err, domain.ErrStringValidation, "declaration names must be identifiers")
}

func TestNew_MetamodelMalformed(t *testing.T) {
	_, err := concerto.New([]byte(`{"declarations":[]}`))
	assert.ErrorIs(t, err, domain.ErrMetamodelMalformed)

	bad := testutils.Metamodel(t, "ns",
		testutils.Concept("A", testutils.Prop("String", "a", testutils.Regex("(", ""))),
		testutils.Concept("B", testutils.Prop("String", "b", testutils.Regex("[z-", ""))),
	)
	_, err = concerto.New(bad)
	require.ErrorIs(t, err, domain.ErrMetamodelMalformed)
	assert.Contains(t, err.Error(), "2 invalid string validator pattern(s)")

	_, err = concerto.NewFromRegistry(nil)
	assert.ErrorIs(t, err, domain.ErrMetamodelMalformed)
}

func TestValidateAs(t *testing.T) {
	v := newShop(t)
	person := []byte(`{"$class":"ns.Person","firstName":"Ada","lastName":"Lovelace"}`)

	assert.NoError(t, v.ValidateAs(person, "ns.Person"))
	assert.ErrorIs(t, v.ValidateAs(person, "ns.Customer"), domain.ErrTypeMismatch)
}

func TestFactory(t *testing.T) {
	doc := testutils.Metamodel(t, "org.acme",
		testutils.Decl("Asset", "Car", testutils.Prop("String", "vin")),
		testutils.Decl("Transaction", "Sale", testutils.Prop("Relationship", "car")),
		testutils.Decl("Event", "Sold", testutils.Prop("Double", "price")),
		testutils.Decl("Participant", "Dealer", testutils.Prop("String", "name")),
		testutils.Concept("Money", testutils.Prop("Long", "cents")),
	)
	v, err := concerto.New(doc)
	require.NoError(t, err)

	car, err := v.NewAsset("org.acme", "Car", []byte(`{"$class":"org.acme.Car","vin":"V1"}`))
	require.NoError(t, err)
	vin, _ := car.Get("vin")
	s, _ := vin.AsString()
	assert.Equal(t, "V1", s)

	_, err = v.NewTransaction("org.acme", "Sale", []byte(`{"$class":"org.acme.Sale","car":"resource:org.acme.Car#V1"}`))
	assert.NoError(t, err)
	_, err = v.NewEvent("org.acme", "Sold", []byte(`{"$class":"org.acme.Sold","price":1}`))
	assert.NoError(t, err)
	_, err = v.NewParticipant("org.acme", "Dealer", []byte(`{"$class":"org.acme.Dealer","name":"D"}`))
	assert.NoError(t, err)
	_, err = v.NewConcept("org.acme", "Money", []byte(`{"$class":"org.acme.Money","cents":100}`))
	assert.NoError(t, err)

	_, err = v.NewConcept("org.acme", "Car", []byte(`{"$class":"org.acme.Car","vin":"V1"}`))
	assert.ErrorIs(t, err, domain.ErrTypeMismatch, "Car is an asset")

	_, err = v.NewAsset("org.acme", "Car", []byte(`{"$class":"org.acme.Dealer","name":"D"}`))
	assert.ErrorIs(t, err, domain.ErrTypeMismatch, "$class must match the requested type")

	_, err = v.NewAsset("org.acme", "Boat", []byte(`{}`))
	assert.ErrorIs(t, err, domain.ErrUnknownClass)

	_, err = v.NewResource([]byte(`{"$class":"org.acme.Money","cents":1.5}`))
	assert.ErrorIs(t, err, domain.ErrTypeMismatch)
}

func TestValidateYAML(t *testing.T) {
	v := newShop(t)

	assert.NoError(t, v.ValidateYAML([]byte("$class: ns.Person\nfirstName: Ada\nlastName: Lovelace\nage: 36\n")))
	assert.ErrorIs(t, v.ValidateYAML([]byte("$class: ns.Person\nfirstName: Ada\n")), domain.ErrMissingRequiredProperty)
}

func TestLifecycleHooksAndLogger(t *testing.T) {
	var events []*domain.ValidationEvent
	hooks := domain.LifecycleHooks{
		OnValidationEnd: func(_ context.Context, e *domain.ValidationEvent) { events = append(events, e) },
	}
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	v := newShop(t, concerto.WithLifecycleHooks(hooks), concerto.WithLogger(logger))
	_ = v.ValidateContext(context.Background(), "a.json", []byte(`{"$class":"ns.Person","firstName":"A","lastName":"B"}`))
	_ = v.ValidateContext(context.Background(), "b.json", []byte(`{"$class":"ns.Nope"}`))

	require.Len(t, events, 2)
	assert.NoError(t, events[0].Err)
	assert.Equal(t, "ns.Person", events[0].Class)
	assert.Equal(t, "b.json", events[1].Source)
	assert.Equal(t, domain.UnknownClass, events[1].ErrorKind())
	assert.Contains(t, logs.String(), "validation failed")
}

func TestWithMaxDepth(t *testing.T) {
	v := newShop(t, concerto.WithMaxDepth(1))

	assert.NoError(t, v.Validate([]byte(`{"$class":"ns.Link","value":1,"next":{"$class":"ns.Link","value":2}}`)))
	err := v.Validate([]byte(`{"$class":"ns.Link","value":1,"next":{"$class":"ns.Link","value":2,"next":{"$class":"ns.Link","value":3}}}`))
	assert.ErrorIs(t, err, domain.ErrNestingTooDeep)
}

func TestDuplicateDeclarationsWarn(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	doc := testutils.Metamodel(t, "ns", testutils.Concept("T"), testutils.Concept("T", testutils.Prop("String", "s")))

	v, err := concerto.New(doc, concerto.WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "duplicate declaration overwritten")
	assert.ErrorIs(t, v.Validate([]byte(`{"$class":"ns.T"}`)), domain.ErrMissingRequiredProperty, "the last declaration wins")
}
