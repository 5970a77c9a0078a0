package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermissionValidate(t *testing.T) {
	valid := Permission{Name: "edit_project", Description: "Can edit projects"}
	assert.NoError(t, valid.Validate())

	short := Permission{Name: "ab", Description: "Can edit projects"}
	assert.Error(t, short.Validate())

	longName := Permission{Name: strings.Repeat("a", 51), Description: "Can edit projects"}
	assert.Error(t, longName.Validate())

	shortDesc := Permission{Name: "edit_project", Description: "ab"}
	assert.Error(t, shortDesc.Validate())

	longDesc := Permission{Name: "edit_project", Description: strings.Repeat("a", 256)}
	assert.Error(t, longDesc.Validate())
}
