package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"pet-finder/internal/domain/shelters"
	"pet-finder/internal/geo"
)

type SheltersRepo struct {
	db *sql.DB

	// Las columnas lat/lng las agrega el job de geocoding; pueden no
	// existir todavía. Se prueba una sola vez al construir el repo.
	hasCoords bool
}

func NewSheltersRepo(db *sql.DB) *SheltersRepo {
	return &SheltersRepo{
		db:        db,
		hasCoords: probeCoordColumns(db),
	}
}

func probeCoordColumns(db *sql.DB) bool {
	var n int
	err := db.QueryRow(`
		SELECT COUNT(*)
		FROM information_schema.columns
		WHERE table_name = 'care_centers'
		  AND column_name IN ('lat', 'lng')
	`).Scan(&n)
	return err == nil && n == 2
}

func (r *SheltersRepo) Search(ctx context.Context, q shelters.Query) (shelters.Page, error) {
	page := shelters.Page{
		Shelters: make([]shelters.Shelter, 0, q.PageSize),
		Page:     q.Page,
		PageSize: q.PageSize,
	}

	query, args := buildShelterQuery(q, r.hasCoords)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return shelters.Page{}, err
	}
	defer rows.Close()

	withDistance := r.hasCoords && q.Origin != nil
	var regNos []string
	for rows.Next() {
		var (
			s     shelters.Shelter
			phone sql.NullString
			addr  sql.NullString
			org   sql.NullString
			lat   sql.NullFloat64
			lng   sql.NullFloat64
			dist  sql.NullFloat64
			total int
		)

		dest := []any{&s.RegNo, &s.Name, &phone, &addr, &org}
		if r.hasCoords {
			dest = append(dest, &lat, &lng)
		}
		if withDistance {
			dest = append(dest, &dist)
		}
		dest = append(dest, &total)

		if err := rows.Scan(dest...); err != nil {
			return shelters.Page{}, err
		}

		s.Phone = phone.String
		s.Address = addr.String
		s.OrgName = org.String
		if lat.Valid {
			v := lat.Float64
			s.Lat = &v
		}
		if lng.Valid {
			v := lng.Float64
			s.Lng = &v
		}
		if dist.Valid {
			v := dist.Float64
			s.DistanceKm = &v
		}
		s.Animals = make([]shelters.Animal, 0)

		page.Total = total
		page.Shelters = append(page.Shelters, s)
		regNos = append(regNos, s.RegNo)
	}
	if err := rows.Err(); err != nil {
		return shelters.Page{}, err
	}

	// Página fuera de rango: la window function no devolvió filas, pero
	// el total puede ser > 0 igual.
	if len(page.Shelters) == 0 {
		total, err := r.countShelters(ctx, q)
		if err != nil {
			return shelters.Page{}, err
		}
		page.Total = total
		return page, nil
	}

	if err := r.attachAnimals(ctx, page.Shelters, regNos, q.Bucket); err != nil {
		return shelters.Page{}, err
	}

	return page, nil
}

// buildShelterQuery compone la consulta de shelters: filtro de texto
// (ya normalizado) contra nombre/dirección/organismo, orden por
// distancia haversine cuando hay coordenadas (columnas y origen) o por
// nombre como fallback, y paginación LIMIT/OFFSET sobre shelters.
// El total que matchea el filtro viaja como window function.
func buildShelterQuery(q shelters.Query, hasCoords bool) (string, []any) {
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	cols := []string{"c.care_reg_no", "c.care_nm", "c.care_tel", "c.care_addr", "c.org_nm"}
	if hasCoords {
		cols = append(cols, "c.lat", "c.lng")
	}

	orderBy := "c.care_nm ASC"
	if hasCoords && q.Origin != nil {
		latArg := arg(q.Origin.Lat)
		lngArg := arg(q.Origin.Lng)
		cols = append(cols, distanceExpr(latArg, lngArg)+" AS distance_km")
		orderBy = "distance_km ASC NULLS LAST, c.care_nm ASC"
	}
	cols = append(cols, "COUNT(*) OVER() AS total")

	var where []string
	if q.Text != "" {
		p := arg("%" + q.Text + "%")
		where = append(where, fmt.Sprintf(
			"(c.care_nm ILIKE %s OR c.care_addr ILIKE %s OR c.org_nm ILIKE %s)", p, p, p))
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(cols, ", "))
	sb.WriteString(" FROM care_centers c")
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(orderBy)
	sb.WriteString(" LIMIT ")
	sb.WriteString(arg(q.PageSize))
	sb.WriteString(" OFFSET ")
	sb.WriteString(arg((q.Page - 1) * q.PageSize))

	return sb.String(), args
}

// distanceExpr es haversine en SQL con el mismo radio terrestre que
// geo.DistanceKm, para que ambos caminos den el mismo número.
func distanceExpr(latArg, lngArg string) string {
	return fmt.Sprintf(
		"2 * %g * asin(sqrt("+
			"power(sin(radians((%s - c.lat) / 2)), 2) + "+
			"cos(radians(c.lat)) * cos(radians(%s)) * "+
			"power(sin(radians((%s - c.lng) / 2)), 2)))",
		geo.EarthRadiusKm, latArg, latArg, lngArg)
}

func (r *SheltersRepo) countShelters(ctx context.Context, q shelters.Query) (int, error) {
	var (
		args  []any
		where string
	)
	if q.Text != "" {
		args = append(args, "%"+q.Text+"%")
		where = " WHERE (c.care_nm ILIKE $1 OR c.care_addr ILIKE $1 OR c.org_nm ILIKE $1)"
	}

	var total int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM care_centers c"+where, args...).Scan(&total)
	return total, err
}

// attachAnimals trae en una sola consulta los animales de los shelters
// de la página y los anida. Solo estados "en protección", con foto, y
// filtrados por especie si corresponde.
func (r *SheltersRepo) attachAnimals(ctx context.Context, page []shelters.Shelter, regNos []string, bucket shelters.SpeciesBucket) error {
	query, args := buildAnimalsQuery(regNos, bucket)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	byRegNo := make(map[string]int, len(page))
	for i, s := range page {
		byRegNo[s.RegNo] = i
	}

	for rows.Next() {
		var (
			a      shelters.Animal
			photo2 sql.NullString
			kind   sql.NullString
			upKind sql.NullString
			age    sql.NullString
			sex    sql.NullString
			neuter sql.NullString
			mark   sql.NullString
			notice sql.NullString
			state  sql.NullString
		)
		if err := rows.Scan(
			&a.DesertionNo,
			&a.Photo1,
			&photo2,
			&kind,
			&upKind,
			&age,
			&sex,
			&neuter,
			&mark,
			&notice,
			&state,
			&a.CareRegNo,
		); err != nil {
			return err
		}

		a.Photo2 = photo2.String
		a.KindName = kind.String
		a.SpeciesCode = upKind.String
		a.Age = age.String
		a.SexCode = sex.String
		a.NeuterYN = neuter.String
		a.SpecialMark = mark.String
		a.NoticeStart = notice.String
		a.ProcessState = state.String
		a.Bucket = shelters.BucketFromCode(a.SpeciesCode)

		if i, ok := byRegNo[a.CareRegNo]; ok {
			page[i].Animals = append(page[i].Animals, a)
		}
	}
	return rows.Err()
}

func buildAnimalsQuery(regNos []string, bucket shelters.SpeciesBucket) (string, []any) {
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	regPlaceholders := make([]string, 0, len(regNos))
	for _, rn := range regNos {
		regPlaceholders = append(regPlaceholders, arg(rn))
	}

	statePlaceholders := make([]string, 0, len(shelters.InCareStates))
	for _, st := range shelters.InCareStates {
		statePlaceholders = append(statePlaceholders, arg(st))
	}

	where := []string{
		"a.care_reg_no IN (" + strings.Join(regPlaceholders, ", ") + ")",
		"a.process_state IN (" + strings.Join(statePlaceholders, ", ") + ")",
		"a.popfile1 IS NOT NULL",
		"a.popfile1 <> ''",
	}

	switch bucket {
	case shelters.BucketDog:
		where = append(where, "a.up_kind_cd = "+arg(shelters.SpeciesCodeDog))
	case shelters.BucketCat:
		where = append(where, "a.up_kind_cd = "+arg(shelters.SpeciesCodeCat))
	}

	query := `
		SELECT
			a.desertion_no,
			a.popfile1,
			a.popfile2,
			a.kind_nm,
			a.up_kind_cd,
			a.age,
			a.sex_cd,
			a.neuter_yn,
			a.special_mark,
			a.notice_sdt::text,
			a.process_state,
			a.care_reg_no
		FROM abandoned_animals a
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY a.notice_sdt DESC NULLS LAST, a.desertion_no ASC`

	return query, args
}
