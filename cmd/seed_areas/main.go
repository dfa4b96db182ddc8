// seed_areas genera el script SQL que puebla el catálogo de zonas de cobertura
// (municipios de Colombia con código DANE) a partir del XML oficial
// Municipios.xml, publicado en ISO-8859-1.
//
// Uso: go run ./cmd/seed_areas -in Municipios.xml -out migrations/0002_service_areas.sql
package main

import (
	"encoding/xml"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type parametros struct {
	Tabla struct {
		Valores []valor `xml:"valor"`
	} `xml:"tabla"`
}

type valor struct {
	Cod    string `xml:"cod,attr"`
	Nombre string `xml:"nombre,attr"`
	Otro   struct {
		Codigo string `xml:"codigo,attr"`
		Valor  string `xml:"valor,attr"`
	} `xml:"otro"`
}

type area struct {
	code       string
	name       string
	department string
}

func main() {
	inPath := flag.String("in", "Municipios.xml", "XML de municipios DANE")
	outPath := flag.String("out", "migrations/0002_service_areas.sql", "script SQL de salida")
	flag.Parse()

	f, err := os.Open(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir XML: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var p parametros
	dec := xml.NewDecoder(f)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		if strings.EqualFold(charset, "ISO-8859-1") || strings.EqualFold(charset, "ISO8859-1") {
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		}
		return input, nil
	}
	if err := dec.Decode(&p); err != nil {
		fmt.Fprintf(os.Stderr, "Decodificar XML: %v\n", err)
		os.Exit(1)
	}

	// Municipio -> (código DANE, nombre, departamento), sin repetidos.
	seen := make(map[string]bool)
	areas := make([]area, 0, len(p.Tabla.Valores))
	for _, v := range p.Tabla.Valores {
		cod := strings.TrimSpace(v.Cod)
		nombre := strings.TrimSpace(v.Nombre)
		dept := strings.TrimSpace(v.Otro.Valor)
		if cod == "" || nombre == "" || dept == "" || seen[cod] {
			continue
		}
		seen[cod] = true
		areas = append(areas, area{code: cod, name: nombre, department: dept})
	}
	if len(areas) == 0 {
		fmt.Fprintln(os.Stderr, "El XML no contiene municipios")
		os.Exit(1)
	}

	// Orden por código para salida estable entre ejecuciones.
	sort.Slice(areas, func(i, j int) bool { return areas[i].code < areas[j].code })

	out, err := os.Create(*outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Catálogo de zonas de cobertura: municipios de Colombia (código DANE).\n")
	out.WriteString("-- Generado por cmd/seed_areas desde Municipios.xml; no editar a mano.\n\n")
	out.WriteString("INSERT INTO service_areas (code, name, department) VALUES\n")
	for i, a := range areas {
		sep := ","
		if i == len(areas)-1 {
			sep = ""
		}
		fmt.Fprintf(out, "  ('%s', '%s', '%s')%s\n", a.code, escapeSQL(a.name), escapeSQL(a.department), sep)
	}
	out.WriteString("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, department = EXCLUDED.department;\n")

	fmt.Printf("Generado %s: %d municipios\n", *outPath, len(areas))
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
