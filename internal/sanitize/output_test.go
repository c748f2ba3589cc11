package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weblarek/backend/internal/model"
)

func TestCleanOrderStripsEveryMarkupField(t *testing.T) {
	o := &model.Order{
		DeliveryAddress: "<script>x</script>123 Main St",
		Comment:         `<img src=x onerror=alert(1)>leave at door`,
		Email:           "<b>a@b.c</b>",
		Phone:           "<i>+100</i>",
	}
	CleanOrder(o)

	assert.Equal(t, "123 Main St", o.DeliveryAddress)
	assert.Equal(t, "leave at door", o.Comment)
	assert.Equal(t, "a@b.c", o.Email)
	assert.Equal(t, "+100", o.Phone)
}

func TestCleanCustomerHandlesEmptyFields(t *testing.T) {
	c := &model.Customer{Name: "<div></div>"}
	CleanCustomer(c)
	assert.Equal(t, "", c.Name)
	assert.Equal(t, "", c.Email)
	assert.Equal(t, "", c.Phone)
}

func TestCleanProducts(t *testing.T) {
	ps := []model.Product{
		{Title: "<p>+1 hour</p>"},
		{Title: "<script>t</script>mug", Description: "<style>x{}</style>desc"},
	}
	CleanProducts(ps)
	assert.Equal(t, "<p>+1 hour</p>", ps[0].Title)
	assert.Equal(t, "mug", ps[1].Title)
	assert.Equal(t, "desc", ps[1].Description)
}
