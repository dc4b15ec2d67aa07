package cueschema

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/dawoe/modelforge/internal/schema"
)

// compileType parses one descriptor struct into a TypeDescriptor.
// The struct label is the type alias.
func compileType(alias string, v cue.Value) (schema.TypeDescriptor, error) {
	path := "types." + alias
	desc := schema.TypeDescriptor{Alias: alias}

	if pos := v.Pos(); pos.IsValid() {
		desc.Origin = fmt.Sprintf("%s:%d", pos.Filename(), pos.Line())
	}

	id, err := requiredInt(v, path, "id")
	if err != nil {
		return desc, err
	}
	desc.ID = id

	desc.Name, err = requiredString(v, path, "name")
	if err != nil {
		return desc, err
	}

	desc.ClrName, err = optionalString(v, path, "clrName")
	if err != nil {
		return desc, err
	}
	desc.Description, err = optionalString(v, path, "description")
	if err != nil {
		return desc, err
	}
	desc.ParentID, err = optionalInt(v, path, "parent")
	if err != nil {
		return desc, err
	}

	kind, err := optionalString(v, path, "kind")
	if err != nil {
		return desc, err
	}
	desc.ItemType, err = itemTypeOf(kind, v, path)
	if err != nil {
		return desc, err
	}

	desc.Mixins, err = mixinIDs(v, path)
	if err != nil {
		return desc, err
	}
	desc.Properties, err = compileProperties(v, path)
	if err != nil {
		return desc, err
	}

	return desc, nil
}

func itemTypeOf(kind string, v cue.Value, path string) (schema.ItemType, error) {
	switch schema.ItemType(kind) {
	case "":
		return schema.ItemTypeContent, nil
	case schema.ItemTypeContent, schema.ItemTypeMedia, schema.ItemTypeMember:
		return schema.ItemType(kind), nil
	default:
		return "", &CompileError{
			Path:    path + ".kind",
			Message: fmt.Sprintf("unknown kind %q (want content, media, or member)", kind),
			Pos:     v.Pos(),
		}
	}
}

func mixinIDs(v cue.Value, path string) ([]int64, error) {
	mixinsVal := v.LookupPath(cue.ParsePath("mixins"))
	if !mixinsVal.Exists() {
		return nil, nil
	}

	list, err := mixinsVal.List()
	if err != nil {
		return nil, &CompileError{Path: path + ".mixins", Message: "mixins must be a list of ids", Pos: mixinsVal.Pos()}
	}

	var ids []int64
	for list.Next() {
		id, err := list.Value().Int64()
		if err != nil {
			return nil, &CompileError{Path: path + ".mixins", Message: "mixin ids must be integers", Pos: list.Value().Pos()}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// compileProperties parses the optional "properties" struct. Field
// labels are property aliases; declaration order is preserved.
func compileProperties(v cue.Value, path string) ([]schema.PropertyDescriptor, error) {
	propsVal := v.LookupPath(cue.ParsePath("properties"))
	if !propsVal.Exists() {
		return nil, nil
	}

	iter, err := propsVal.Fields()
	if err != nil {
		return nil, &CompileError{Path: path + ".properties", Message: "properties must be a struct", Pos: propsVal.Pos()}
	}

	var props []schema.PropertyDescriptor
	for iter.Next() {
		alias := iter.Selector().Unquoted()
		propPath := path + ".properties." + alias
		propVal := iter.Value()

		prop := schema.PropertyDescriptor{Alias: alias}
		prop.Name, err = requiredString(propVal, propPath, "name")
		if err != nil {
			return nil, err
		}
		prop.TypeFullName, err = requiredString(propVal, propPath, "type")
		if err != nil {
			return nil, err
		}
		prop.ClrName, err = optionalString(propVal, propPath, "clrName")
		if err != nil {
			return nil, err
		}
		prop.Description, err = optionalString(propVal, propPath, "description")
		if err != nil {
			return nil, err
		}
		props = append(props, prop)
	}
	return props, nil
}

func requiredString(v cue.Value, path, field string) (string, error) {
	fieldVal := v.LookupPath(cue.ParsePath(field))
	if !fieldVal.Exists() {
		return "", &CompileError{Path: path + "." + field, Message: field + " is required", Pos: v.Pos()}
	}
	s, err := fieldVal.String()
	if err != nil {
		return "", &CompileError{Path: path + "." + field, Message: field + " must be a string", Pos: fieldVal.Pos()}
	}
	return s, nil
}

func optionalString(v cue.Value, path, field string) (string, error) {
	fieldVal := v.LookupPath(cue.ParsePath(field))
	if !fieldVal.Exists() {
		return "", nil
	}
	s, err := fieldVal.String()
	if err != nil {
		return "", &CompileError{Path: path + "." + field, Message: field + " must be a string", Pos: fieldVal.Pos()}
	}
	return s, nil
}

func requiredInt(v cue.Value, path, field string) (int64, error) {
	fieldVal := v.LookupPath(cue.ParsePath(field))
	if !fieldVal.Exists() {
		return 0, &CompileError{Path: path + "." + field, Message: field + " is required", Pos: v.Pos()}
	}
	n, err := fieldVal.Int64()
	if err != nil {
		return 0, &CompileError{Path: path + "." + field, Message: field + " must be an integer", Pos: fieldVal.Pos()}
	}
	return n, nil
}

func optionalInt(v cue.Value, path, field string) (int64, error) {
	fieldVal := v.LookupPath(cue.ParsePath(field))
	if !fieldVal.Exists() {
		return 0, nil
	}
	n, err := fieldVal.Int64()
	if err != nil {
		return 0, &CompileError{Path: path + "." + field, Message: field + " must be an integer", Pos: fieldVal.Pos()}
	}
	return n, nil
}
