package i18n

import "golang.org/x/text/language"

// Message keys. The English text doubles as the key.
const (
	MsgPhotoAlbum         = "Photo Album"
	MsgSearch             = "Search"
	MsgNew                = "New"
	MsgSelectImage        = "Select an image file"
	MsgImageRequired      = "An image is required"
	MsgFieldTooLong       = "%s is too long"
	MsgNewDisabled        = "Not available to new images."
	MsgNewAnonymous       = "Not available to publish new images and anonymous users. Please, login in"
	MsgImageTooLarge      = "Image size is larger than %v MB."
	MsgImagePublished     = "Image published successfully."
	MsgNewImageSubject    = "New image published"
	MsgCommentsDisabled   = "Not available to publish comments."
	MsgCommentsAnonymous  = "Not available to publish comments and anonymous users. Please, login in"
	MsgEmptyComment       = "Add a comment to publish."
	MsgCommentPublished   = "Comment published successfully."
	MsgNewCommentSubject  = "New comment published"
	MsgDisplay            = "Displaying <b>{start} - {end}</b> of <b>{total}</b>"
	MsgImage              = "Image"
	MsgDescription        = "Description"
	MsgKeys               = "Keys"
	MsgKeysHelp           = `Separated by comma ","`
	MsgPublish            = "Publish"
	MsgComments           = "Comments"
	MsgAddComment         = "Add comment"
	MsgNoPhotos           = "There are no photos yet."
	MsgNoResults          = "No photos match your search."
)

var translations = map[language.Tag]map[string]string{
	language.English: {
		MsgPhotoAlbum:        MsgPhotoAlbum,
		MsgSearch:            MsgSearch,
		MsgNew:               MsgNew,
		MsgSelectImage:       MsgSelectImage,
		MsgImageRequired:     MsgImageRequired,
		MsgFieldTooLong:      MsgFieldTooLong,
		MsgNewDisabled:       MsgNewDisabled,
		MsgNewAnonymous:      MsgNewAnonymous,
		MsgImageTooLarge:     MsgImageTooLarge,
		MsgImagePublished:    MsgImagePublished,
		MsgNewImageSubject:   MsgNewImageSubject,
		MsgCommentsDisabled:  MsgCommentsDisabled,
		MsgCommentsAnonymous: MsgCommentsAnonymous,
		MsgEmptyComment:      MsgEmptyComment,
		MsgCommentPublished:  MsgCommentPublished,
		MsgNewCommentSubject: MsgNewCommentSubject,
		MsgDisplay:           MsgDisplay,
		MsgImage:             MsgImage,
		MsgDescription:       MsgDescription,
		MsgKeys:              MsgKeys,
		MsgKeysHelp:          MsgKeysHelp,
		MsgPublish:           MsgPublish,
		MsgComments:          MsgComments,
		MsgAddComment:        MsgAddComment,
		MsgNoPhotos:          MsgNoPhotos,
		MsgNoResults:         MsgNoResults,
	},
	language.Spanish: {
		MsgPhotoAlbum:        "Álbum de fotos",
		MsgSearch:            "Buscar",
		MsgNew:               "Nueva",
		MsgSelectImage:       "Seleccione un fichero de imagen",
		MsgImageRequired:     "La imagen es obligatoria",
		MsgFieldTooLong:      "%s es demasiado largo",
		MsgNewDisabled:       "No está disponible publicar nuevas imágenes.",
		MsgNewAnonymous:      "No está disponible publicar nuevas imágenes a usuarios anónimos. Por favor, inicie sesión",
		MsgImageTooLarge:     "El tamaño de la imagen es superior a %v MB.",
		MsgImagePublished:    "Imagen publicada correctamente.",
		MsgNewImageSubject:   "Nueva imagen publicada",
		MsgCommentsDisabled:  "No está disponible publicar comentarios.",
		MsgCommentsAnonymous: "No está disponible publicar comentarios a usuarios anónimos. Por favor, inicie sesión",
		MsgEmptyComment:      "Añada un comentario para publicar.",
		MsgCommentPublished:  "Comentario publicado correctamente.",
		MsgNewCommentSubject: "Nuevo comentario publicado",
		MsgDisplay:           "Mostrando <b>{start} - {end}</b> de <b>{total}</b>",
		MsgImage:             "Imagen",
		MsgDescription:       "Descripción",
		MsgKeys:              "Claves",
		MsgKeysHelp:          `Separadas por coma ","`,
		MsgPublish:           "Publicar",
		MsgComments:          "Comentarios",
		MsgAddComment:        "Añadir comentario",
		MsgNoPhotos:          "Todavía no hay fotos.",
		MsgNoResults:         "Ninguna foto coincide con la búsqueda.",
	},
	language.Catalan: {
		MsgPhotoAlbum:        "Àlbum de fotos",
		MsgSearch:            "Cercar",
		MsgNew:               "Nova",
		MsgSelectImage:       "Seleccioneu un fitxer d'imatge",
		MsgImageRequired:     "La imatge és obligatòria",
		MsgFieldTooLong:      "%s és massa llarg",
		MsgNewDisabled:       "No està disponible publicar noves imatges.",
		MsgNewAnonymous:      "No està disponible publicar noves imatges a usuaris anònims. Si us plau, inicieu sessió",
		MsgImageTooLarge:     "La mida de la imatge és superior a %v MB.",
		MsgImagePublished:    "Imatge publicada correctament.",
		MsgNewImageSubject:   "Nova imatge publicada",
		MsgCommentsDisabled:  "No està disponible publicar comentaris.",
		MsgCommentsAnonymous: "No està disponible publicar comentaris a usuaris anònims. Si us plau, inicieu sessió",
		MsgEmptyComment:      "Afegiu un comentari per publicar.",
		MsgCommentPublished:  "Comentari publicat correctament.",
		MsgNewCommentSubject: "Nou comentari publicat",
		MsgDisplay:           "Mostrant <b>{start} - {end}</b> de <b>{total}</b>",
		MsgImage:             "Imatge",
		MsgDescription:       "Descripció",
		MsgKeys:              "Claus",
		MsgKeysHelp:          `Separades per coma ","`,
		MsgPublish:           "Publicar",
		MsgComments:          "Comentaris",
		MsgAddComment:        "Afegir comentari",
		MsgNoPhotos:          "Encara no hi ha fotos.",
		MsgNoResults:         "Cap foto coincideix amb la cerca.",
	},
}
