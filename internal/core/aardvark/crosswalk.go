package aardvark

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"aardsync/internal/core/normalize"

	"github.com/google/uuid"
)

// Crosswalker converts GeoBlacklight 1.0 documents to Aardvark
type Crosswalker interface {
	FromLegacy(map[string]any) Record
}

// Crosswalk is the GBL1 to Aardvark mapping after kgjenkins/gbl2aardvark
type Crosswalk struct{}

// FromLegacy implements Crosswalker
func (Crosswalk) FromLegacy(r1 map[string]any) Record { return FromLegacy(r1) }

// unknownSuffix generates the tail of ids for records that carry none
var unknownSuffix = func() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}

// FromLegacy maps a GBL1 document to Aardvark. It always yields an id,
// falling back to a generated unknown_id_ value
func FromLegacy(r1 map[string]any) Record {
	r2 := Record{}

	switch {
	case truthy(r1["layer_slug_s"]):
		r2[FieldID] = r1["layer_slug_s"]
	case truthy(r1["dc_identifier_s"]):
		r2[FieldID] = r1["dc_identifier_s"]
	default:
		r2[FieldID] = "unknown_id_" + unknownSuffix()
	}
	if truthy(r1["layer_id_s"]) {
		r2["gbl_wxsIdentifier_s"] = str(r1["layer_id_s"])
	}

	r2[FieldTitle] = str(r1["dc_title_s"])
	r2["dct_description_sm"] = list(r1["dc_description_s"])
	if langs := normalize.Distinct(append(list(r1["dc_language_s"]), list(r1["dc_language_sm"])...)...); len(langs) > 0 {
		r2["dct_language_sm"] = langs
	}
	r2["dct_creator_sm"] = list(r1["dc_creator_sm"])
	if pubs := normalize.Distinct(append(list(r1["dc_publisher_s"]), list(r1["dc_publisher_sm"])...)...); len(pubs) > 0 {
		r2["dct_publisher_sm"] = pubs
	}
	r2["dct_subject_sm"] = list(r1["dc_subject_sm"])

	copyList(r1, r2, "dcat_keyword_sm", "dcat_keyword_sm")
	copyList(r1, r2, "dct_temporal_sm", "dct_temporal_sm")
	copyList(r1, r2, "dct_spatial_sm", "dct_spatial_sm")
	copyList(r1, r2, "dc_source_sm", "dct_source_sm")
	copyString(r1, r2, "dct_issued_s", "dct_issued_s")
	copyString(r1, r2, "dcat_centroid", "dcat_centroid")
	copyString(r1, r2, "dct_provenance_s", "schema_provider_s")

	if y, ok := year(r1["solr_year_i"]); ok {
		r2["gbl_indexYear_im"] = []int64{y}
	}
	if g := r1["solr_geom"]; truthy(g) {
		r2["locn_geometry"] = g
		r2["dcat_bbox"] = g
	}

	if truthy(r1["dc_rights_s"]) {
		r2["dct_accessRights_s"] = str(r1["dc_rights_s"])
	} else {
		r2["dct_accessRights_s"] = "Public"
	}
	if ref := r1[FieldReferences]; truthy(ref) {
		r2[FieldReferences] = ref
	}

	r2["gbl_resourceClass_sm"] = []string{resourceClass(r1)}
	if t := resourceType(r1["layer_geom_type_s"]); t != "" {
		r2["gbl_resourceType_sm"] = []string{t}
	}

	if m := r1["layer_modified_dt"]; truthy(m) {
		r2["gbl_mdModified_dt"] = m
	}
	if id := r1["dc_identifier_s"]; truthy(id) {
		r2["dct_identifier_sm"] = []any{id}
	}

	r2[FieldMDVersion] = "Aardvark"
	return r2
}

func resourceClass(r1 map[string]any) string {
	if g := r1["layer_geom_type_s"]; truthy(g) {
		switch str(g) {
		case "Raster", "Polygon", "Line", "Point", "Mixed":
			return "Datasets"
		case "Image":
			return "Imagery"
		case "Paper Map", "Scanned Map":
			return "Maps"
		}
		return "Other"
	}
	if t := r1["dc_type_s"]; truthy(t) {
		switch str(t) {
		case "Dataset":
			return "Datasets"
		case "Image":
			return "Imagery"
		case "PhysicalObject":
			return "Maps"
		}
	}
	return "Other"
}

func resourceType(geom any) string {
	switch g := str(geom); g {
	case "Polygon", "Line", "Point":
		return g + " data"
	case "Raster":
		return "Raster data"
	}
	return ""
}

func copyList(r1 map[string]any, r2 Record, from, to string) {
	if v := r1[from]; truthy(v) {
		r2[to] = list(v)
	}
}

func copyString(r1 map[string]any, r2 Record, from, to string) {
	if v := r1[from]; truthy(v) {
		r2[to] = str(v)
	}
}

// truthy follows the loose presence test legacy producers rely on:
// null, false, zero and "" count as absent
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	case float64:
		return x != 0
	}
	return true
}

// str renders a value as a single string; arrays yield their first element
func str(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []any:
		if len(x) == 0 {
			return ""
		}
		return str(x[0])
	case []string:
		if len(x) == 0 {
			return ""
		}
		return x[0]
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// list renders a value as a string slice; absent values yield an empty slice
func list(v any) []string {
	switch x := v.(type) {
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			out = append(out, str(e))
		}
		return out
	case []string:
		return append([]string(nil), x...)
	}
	if truthy(v) {
		return []string{str(v)}
	}
	return []string{}
}

func year(v any) (int64, bool) {
	if !truthy(v) {
		return 0, false
	}
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n, true
		}
		f, err := x.Float64()
		return int64(f), err == nil
	case float64:
		return int64(x), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return n, err == nil
	}
	return 0, false
}
