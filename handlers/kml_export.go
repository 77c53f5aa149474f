package handlers

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strconv"

	"mariua.net/obras/models"
)

const kmlNamespace = "http://www.opengis.net/kml/2.2"

type kmlRoot struct {
	XMLName  xml.Name    `xml:"kml"`
	Xmlns    string      `xml:"xmlns,attr"`
	Document kmlDocument `xml:"Document"`
}

type kmlDocument struct {
	Name       string         `xml:"name"`
	Placemarks []kmlPlacemark `xml:"Placemark"`
}

type kmlPlacemark struct {
	Name         string          `xml:"name"`
	Description  string          `xml:"description,omitempty"`
	ExtendedData kmlExtendedData `xml:"ExtendedData"`
	Point        kmlPoint        `xml:"Point"`
}

type kmlExtendedData struct {
	Data []kmlData `xml:"Data"`
}

type kmlData struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

// KML Point coordinates are "lng,lat"
type kmlPoint struct {
	Coordinates string `xml:"coordinates"`
}

func buildKML(orders []models.WorkOrder) kmlRoot {
	doc := kmlDocument{Name: "Obras"}
	for _, o := range orders {
		if !o.HasValidCoordinates {
			continue
		}
		doc.Placemarks = append(doc.Placemarks, kmlPlacemark{
			Name:        o.ProjectCode,
			Description: fmt.Sprintf("%s - %s", o.Locality, o.Status),
			ExtendedData: kmlExtendedData{Data: []kmlData{
				{Name: "encarregado", Value: o.Foreman},
				{Name: "supervisor", Value: o.Supervisor},
				{Name: "status", Value: string(o.Status)},
				{Name: "progresso", Value: strconv.Itoa(o.ProgressPercent)},
			}},
			Point: kmlPoint{Coordinates: strconv.FormatFloat(*o.Longitude, 'f', -1, 64) + "," +
				strconv.FormatFloat(*o.Latitude, 'f', -1, 64)},
		})
	}
	return kmlRoot{Xmlns: kmlNamespace, Document: doc}
}

// ExportObrasKML downloads work orders with coordinates as a KML file for
// Google Earth and field GPS apps.
func (h *Handler) ExportObrasKML(w http.ResponseWriter, r *http.Request) {
	_, res, err := h.loadOrders(r.Context())
	if err != nil {
		h.writeError(w, h.workbookStatus(err), err.Error())
		return
	}

	out, err := xml.MarshalIndent(buildKML(res.Orders), "", "  ")
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to generate KML file")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.google-earth.kml+xml")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=obras_%s.kml", h.now().Format("20060102_150405")))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(xml.Header))
	w.Write(out)
}
